package mycontext

import (
	"context"
	"net/http"

	"github.com/zenexa/ghlbridge/lib/myuuid"
)

// CtxTraceContext is a context key for the trace-uid of a request (used by mylog)
type CtxTraceContext struct{}

var uuider myuuid.UUIDer = myuuid.RealUUIDer{}

func ContextFromHTTPRequest(r *http.Request) context.Context {
	trace := r.Header.Get("X-Request-Id")
	if trace == "" {
		trace = uuider.Create()
	}

	return context.WithValue(r.Context(), CtxTraceContext{}, trace)
}

func GetTraceUID(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}

	return trace
}
