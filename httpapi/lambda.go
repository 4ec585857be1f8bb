package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler serves API Gateway proxy events through the HTTP
// handler, for deployments where the API runs as a Lambda function
// behind API Gateway instead of a long-lived server.
type LambdaHandler struct {
	handler http.Handler
}

// NewLambdaHandler wraps an HTTP handler for Lambda invocation.
func NewLambdaHandler(handler http.Handler) *LambdaHandler {
	return &LambdaHandler{handler: handler}
}

// Handle translates one proxy event into an http.Request, runs it
// through the handler, and converts the captured response back.
func (l *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	target := event.Path
	if len(event.QueryStringParameters) > 0 {
		values := url.Values{}
		for k, v := range event.QueryStringParameters {
			values.Set(k, v)
		}
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, event.HTTPMethod, target, strings.NewReader(event.Body))
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}

	capture := &responseCapture{header: http.Header{}, status: http.StatusOK}
	l.handler.ServeHTTP(capture, req)

	headers := make(map[string]string, len(capture.header))
	for k := range capture.header {
		headers[k] = capture.header.Get(k)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: capture.status,
		Headers:    headers,
		Body:       capture.body.String(),
	}, nil
}

// responseCapture implements http.ResponseWriter over a buffer.
type responseCapture struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func (c *responseCapture) Header() http.Header {
	return c.header
}

func (c *responseCapture) WriteHeader(code int) {
	if c.wrote {
		return
	}
	c.wrote = true
	c.status = code
}

func (c *responseCapture) Write(p []byte) (int, error) {
	c.wrote = true
	return c.body.Write(p)
}
