package auditlog

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"picklab-api/internal/logging"
	"picklab-api/internal/util"
)

// Snapshotter supplies the stored state of a content item before it changes.
type Snapshotter interface {
	Snapshot(contentType, code string) any
}

// Recorder is a gin middleware that appends an audit entry for every
// mutating request under its prefix. Entries are written off the request
// path and write failures are only logged.
type Recorder struct {
	Service   AuditLogServiceAPI
	Snapshots Snapshotter
	Logger    *zap.Logger
	Prefix    string

	wg sync.WaitGroup
}

func NewRecorder(svc AuditLogServiceAPI, snapshots Snapshotter, log *zap.Logger) *Recorder {
	return &Recorder{Service: svc, Snapshots: snapshots, Logger: logging.OrNop(log), Prefix: "/contents"}
}

// Wait blocks until every pending entry has been written.
func (rec *Recorder) Wait() {
	rec.wg.Wait()
}

type target struct {
	contentType string
	code        string
	action      string

	codeFromResponse bool
	snapshot         bool
}

var contentTypes = map[string]bool{"food": true, "game": true, "quiz": true}

var commonTypes = map[string]string{"masters": "common_master", "details": "common_detail"}

func actionFor(method string) string {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	}
	return ActionUpdate
}

// resolveTarget derives what a mutating path refers to. The second result is
// false for paths that carry no auditable code.
func resolveTarget(method, rel string) (target, bool) {
	segs := strings.Split(strings.Trim(rel, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return target{}, false
	}

	t := target{action: actionFor(method)}
	if segs[len(segs)-1] == "status" {
		t.action = ActionToggle
	}

	switch {
	case segs[0] == "batch" && len(segs) == 1:
		t.contentType, t.code = "batch", "batch"

	case contentTypes[segs[0]]:
		t.contentType = segs[0]
		switch {
		case len(segs) == 1:
			t.codeFromResponse = true
		case len(segs) == 2 && segs[1] == "import":
			t.code = "import"
		case len(segs) == 2:
			t.code, t.snapshot = segs[1], true
		case len(segs) == 3 && segs[2] == "status" && segs[1] != "export":
			t.code, t.snapshot = segs[1], true
		default:
			return target{}, false
		}

	case segs[0] == "common" && len(segs) >= 2 && commonTypes[segs[1]] != "":
		t.contentType = commonTypes[segs[1]]
		switch len(segs) {
		case 2:
			t.codeFromResponse = true
		case 3:
			t.code = segs[2]
		default:
			return target{}, false
		}

	case len(segs) == 2 && segs[1] == "status":
		// type is only known once a table matched
		t.code, t.snapshot = segs[0], true

	default:
		return target{}, false
	}
	return t, true
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (rec *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		default:
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if rec.Prefix != "" {
			if !strings.HasPrefix(path, rec.Prefix) {
				c.Next()
				return
			}
			path = strings.TrimPrefix(path, rec.Prefix)
		}
		t, ok := resolveTarget(c.Request.Method, path)
		if !ok {
			c.Next()
			return
		}

		var oldValue any
		if t.snapshot && t.action != ActionCreate && rec.Snapshots != nil {
			oldValue = rec.Snapshots.Snapshot(t.contentType, t.code)
		}

		reqBody := readBody(c.Request)
		bw := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = bw

		c.Next()

		entry := AuditLog{
			Code:        t.code,
			ContentType: t.contentType,
			Action:      t.action,
			AdminName:   DefaultAdminName,
			IPAddress:   util.ClientIP(c.Request),
		}
		if ua := c.Request.UserAgent(); ua != "" {
			entry.UserAgent = &ua
		}

		var newValue any
		if c.Writer.Status() < http.StatusBadRequest {
			newValue = afterValue(t, &entry, bw.body.Bytes(), reqBody)
		}
		if entry.Code == "" {
			return
		}
		if entry.ContentType == "" {
			entry.ContentType = "unknown"
		}

		rec.wg.Add(1)
		go func() {
			defer rec.wg.Done()
			rec.write(entry, oldValue, newValue)
		}()
	}
}

func (rec *Recorder) write(entry AuditLog, oldValue, newValue any) {
	log := logging.OrNop(rec.Logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("audit log write panicked", zap.Any("panic", r))
		}
	}()
	if err := rec.Service.Log(entry, oldValue, newValue); err != nil {
		log.Warn("audit log write failed",
			zap.String("code", entry.Code), zap.String("action", entry.Action), zap.Error(err))
	}
}

// readBody returns the request body and leaves a fresh reader in its place.
func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	b, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return nil
	}
	return b
}

// afterValue picks the stored state after a successful call and fills in
// identifiers only the response knows.
func afterValue(t target, entry *AuditLog, respBody, reqBody []byte) any {
	if t.action == ActionDelete {
		return nil
	}

	var resp map[string]any
	_ = json.Unmarshal(respBody, &resp)

	if t.action == ActionToggle {
		if resp == nil {
			return nil
		}
		if typ, ok := resp["type"].(string); ok && entry.ContentType == "" {
			entry.ContentType = typ
		}
		return resp["data"]
	}

	if t.codeFromResponse && resp != nil {
		entry.Code = codeIn(t.contentType, resp)
	}
	if resp != nil {
		return json.RawMessage(respBody)
	}
	if len(bytes.TrimSpace(reqBody)) > 0 && json.Valid(reqBody) {
		return json.RawMessage(reqBody)
	}
	return nil
}

func codeIn(contentType string, row map[string]any) string {
	var keys []string
	if contentTypes[contentType] {
		keys = []string{contentType + "_code", util.SnakeToCamel(contentType + "_code")}
	} else {
		keys = []string{"seq"}
	}
	for _, k := range keys {
		switch v := row[k].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}
