package api

import (
	"context"
	"net/http"

	"github.com/nerrad567/storefront-core/internal/audit"
)

// auditChanSize is the buffer size for the async system log channel.
// Entries beyond this are dropped (best-effort) to avoid back-pressure on requests.
const auditChanSize = 256

// auditLog enqueues a system log entry for asynchronous write (best-effort).
// If the channel is full the entry is dropped and a warning is logged.
func (s *Server) auditLog(userID, text string) {
	if s.auditCh == nil {
		return
	}

	entry := &audit.SystemLog{UserID: userID, Log: text, CreatedAt: s.now().UTC()}

	select {
	case s.auditCh <- entry:
	default:
		s.logger.Warn("system log channel full, dropping entry", "user_id", userID)
	}
}

// drainAuditLog writes queued entries serially until ctx is cancelled,
// then flushes whatever is still buffered.
func (s *Server) drainAuditLog(ctx context.Context) {
	for {
		select {
		case entry := <-s.auditCh:
			s.writeAuditEntry(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.auditCh:
					s.writeAuditEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *Server) writeAuditEntry(entry *audit.SystemLog) {
	// The request context is gone by now.
	if err := s.systemLogs.Create(context.Background(), entry); err != nil {
		s.logger.Error("system log write failed", "user_id", entry.UserID, "error", err)
	}
}

// handleListSystemLogs returns the latest entries and prunes expired ones.
// Staff only.
func (s *Server) handleListSystemLogs(w http.ResponseWriter, r *http.Request) {
	if s.systemLogs == nil {
		s.logger.Error("system logs requested but not configured")
		writeInternalError(w)
		return
	}

	logs, err := s.systemLogs.ListLatest(r.Context(), audit.DefaultListLimit)
	if err != nil {
		s.logger.Error("list system logs failed", "error", err)
		writeInternalError(w)
		return
	}

	cutoff := s.now().Add(-audit.Retention)
	if n, err := s.systemLogs.PruneOlderThan(r.Context(), cutoff); err != nil {
		s.logger.Warn("pruning system logs failed", "error", err)
	} else if n > 0 {
		s.logger.Info("pruned system logs", "removed", n)
	}

	writeJSON(w, http.StatusOK, logs)
}
