package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger_LevelByStatus(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/status/:code", func(c *gin.Context) {
		switch c.Param("code") {
		case "400":
			c.Status(http.StatusBadRequest)
		case "500":
			_ = c.Error(http.ErrHandlerTimeout)
			c.Status(http.StatusInternalServerError)
		default:
			c.Status(http.StatusOK)
		}
	})

	cases := []struct {
		path  string
		level logrus.Level
	}{
		{"/status/200?x=1", logrus.InfoLevel},
		{"/status/400", logrus.WarnLevel},
		{"/status/500", logrus.ErrorLevel},
	}
	for _, tc := range cases {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: no log entry", tc.path)
		}
		if entry.Level != tc.level {
			t.Fatalf("%s: want level %s, got %s", tc.path, tc.level, entry.Level)
		}
		if entry.Data["path"] != tc.path || entry.Data["route"] != "/status/:code" {
			t.Fatalf("%s: unexpected fields %v", tc.path, entry.Data)
		}
	}
	if hook.LastEntry().Data["errors"] != http.ErrHandlerTimeout.Error() {
		t.Fatalf("errors should be logged: %v", hook.LastEntry().Data)
	}
}
