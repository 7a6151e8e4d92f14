package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-search/pkg/tracing"
)

// tracerName 追踪的instrumentation名称
const tracerName = "bookstore-search"

// Tracing 请求追踪中间件
// 设计说明:
// 1. 每个请求开一个根Span,名称用"方法 路由模板"(不含具体参数值,
//    避免高基数)
// 2. TraceID回写X-Trace-ID响应头,便于用响应头关联后端日志
// 3. Span上下文注入c.Request,下游用例的子Span自动挂到本Span下
// 4. 未启用追踪时otel给出noop Tracer,本中间件近似零开销
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, c.Request.Method+" "+route)
		defer span.End()

		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			c.Header("X-Trace-ID", traceID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
	}
}
