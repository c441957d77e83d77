package middlewares

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"picklab-api/internal/util"
)

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// CamelCaseResponse rewrites the keys of successful JSON responses from
// snake_case to camelCase. Other bodies are forwarded untouched.
func CamelCaseResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		c.Writer = bw.ResponseWriter
		if bw.buf.Len() == 0 {
			return
		}

		body := bw.buf.Bytes()
		if bw.Status() < http.StatusBadRequest && isJSON(bw.Header().Get("Content-Type")) {
			if out, err := util.TransformJSON(body); err == nil {
				body = out
				bw.Header().Del("Content-Length")
			}
		}
		_, _ = bw.ResponseWriter.Write(body)
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.TrimSpace(contentType), "application/json")
}
