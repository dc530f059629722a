package ui

import (
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tabulite/domain/record"
	"tabulite/internal/config"
	"tabulite/internal/staging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:              "0",
		PreviewRows:       5,
		MaxUploadBytes:    1 << 20,
		SessionTTLMinutes: 30,
	}
	srv, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func newTestSession(t *testing.T, id string) *session {
	t.Helper()
	ws, err := staging.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ws.Cleanup() })
	return &session{id: id, workspace: ws, createdAt: time.Now()}
}

func TestSessionStateConcurrentAccess(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, "s1")
	srv.putSession(sess)

	dbPath := sess.workspace.Path("out.db")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				srv.setConvertTarget(sess, dbPath)
				srv.setReport(sess, &record.ConversionReport{StorePath: dbPath})
				_ = srv.sessionDBPath(sess)
				if got, ok := srv.getSession("s1"); ok {
					_ = srv.sessionDBPath(got)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, dbPath, srv.sessionDBPath(sess))
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	srv := newTestServer(t)

	live := newTestSession(t, "live")
	expired := newTestSession(t, "expired")
	expired.createdAt = time.Now().Add(-time.Hour)

	srv.putSession(live)
	srv.putSession(expired)

	_, ok := srv.getSession("expired")
	assert.False(t, ok)

	_, ok = srv.getSession("live")
	assert.True(t, ok)
}
