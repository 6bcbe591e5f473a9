package textfield

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-drift/textfield/pkg/textfield"

// Span attribute keys.
var (
	AttrMethod     = attribute.Key("textfield.method")
	AttrInstanceID = attribute.Key("textfield.instance_id")
	AttrResultCode = attribute.Key("textfield.result_code")
)

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func startCommandSpan(method string) trace.Span {
	_, span := Tracer().Start(context.Background(), "textfield."+method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(AttrMethod.String(method)),
	)
	return span
}

func endCommandSpan(span trace.Span, code string, err error) {
	span.SetAttributes(AttrResultCode.String(code))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
	}
	span.End()
}
