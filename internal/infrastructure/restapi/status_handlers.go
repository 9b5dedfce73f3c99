package restapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"w3batch/internal/domain/entity"
)

// RunStatus is the shared slot the batch run publishes into and the HTTP
// handlers read from. Writes happen from the run goroutine, reads from gin
// workers.
type RunStatus struct {
	mu      sync.RWMutex
	action  string
	running bool
	report  *entity.Report
}

// NewRunStatus creates an empty status slot.
func NewRunStatus() *RunStatus {
	return &RunStatus{}
}

// Start marks an action run as in flight.
func (s *RunStatus) Start(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.action = action
	s.running = true
}

// Finish publishes the finished report. A nil report (aborted run) just
// clears the running flag.
func (s *RunStatus) Finish(report *entity.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if report != nil {
		s.report = report
	}
}

// Snapshot returns a consistent view of the slot.
func (s *RunStatus) Snapshot() (action string, running bool, report *entity.Report) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.action, s.running, s.report
}

// RunSummary сводка последнего завершенного запуска.
type RunSummary struct {
	Action    string    `json:"action"`
	Total     bool      `json:"total"`
	Wallets   int       `json:"wallets"`
	Failed    int       `json:"failed"`
	StartedAt time.Time `json:"started_at"`
	ElapsedMs int64     `json:"elapsed_ms"`
}

// APIStatusResponse определяет структуру ответа для эндпоинта статуса.
type APIStatusResponse struct {
	Application string      `json:"application,omitempty"`
	Action      string      `json:"action,omitempty"`
	Running     bool        `json:"running"`
	LastRun     *RunSummary `json:"last_run,omitempty"`
}

// APIReportResponse определяет структуру ответа для эндпоинта отчета.
type APIReportResponse struct {
	Data struct {
		Report *entity.Report `json:"report"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// StatusHandler обрабатывает HTTP запросы о состоянии запуска.
type StatusHandler struct {
	application string
	status      *RunStatus
}

// NewStatusHandler создает новый экземпляр StatusHandler.
func NewStatusHandler(application string, status *RunStatus) *StatusHandler {
	return &StatusHandler{
		application: application,
		status:      status,
	}
}

// GetStatusHandler reports whether a run is in flight and summarizes the
// last finished one.
func (h *StatusHandler) GetStatusHandler(c *gin.Context) {
	action, running, report := h.status.Snapshot()

	response := APIStatusResponse{
		Application: h.application,
		Action:      action,
		Running:     running,
	}
	if report != nil {
		response.LastRun = &RunSummary{
			Action:    report.Action,
			Total:     report.Total,
			Wallets:   report.Wallets,
			Failed:    len(report.Failed),
			StartedAt: report.StartedAt,
			ElapsedMs: report.Elapsed.Milliseconds(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetReportHandler serves the last finished report in full.
func (h *StatusHandler) GetReportHandler(c *gin.Context) {
	_, running, report := h.status.Snapshot()

	if report == nil {
		message := "No report yet. The batch has not finished."
		if !running {
			message = "No report yet. Start a run first."
		}
		c.JSON(http.StatusNotFound, APIReportResponse{StatusMessage: message})
		return
	}

	response := APIReportResponse{StatusMessage: "Report retrieved successfully."}
	response.Data.Report = report
	c.JSON(http.StatusOK, response)
}
