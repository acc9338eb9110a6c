// README: Session handler; booking dialogue over HTTP.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ferrychat/internal/modules/dialogue"
)

// actionTimeout bounds one dialogue action including its upstream calls.
const actionTimeout = 30 * time.Second

type SessionHandler struct {
	dialogue *dialogue.Service
}

func NewSessionHandler(svc *dialogue.Service) *SessionHandler {
	return &SessionHandler{dialogue: svc}
}

type createSessionReq struct {
	TenantID int64 `json:"tenantId"`
}

type submitTextReq struct {
	Text string `json:"text"`
}

type quickReplyReq struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type selectDateReq struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Label string `json:"label"`
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TenantID <= 0 {
		writeError(c, http.StatusBadRequest, "missing tenantId")
		return
	}

	ctx, cancel := withActionTimeout(c)
	defer cancel()

	snap, err := h.dialogue.StartSession(ctx, req.TenantID)
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, snap)
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	snap, err := h.dialogue.GetSession(c.Param("id"))
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// SubmitText handles POST /api/sessions/:id/text.
func (h *SessionHandler) SubmitText(c *gin.Context) {
	var req submitTextReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}

	ctx, cancel := withActionTimeout(c)
	defer cancel()

	snap, err := h.dialogue.SubmitText(ctx, c.Param("id"), req.Text)
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// SelectQuickReply handles POST /api/sessions/:id/quick-replies.
func (h *SessionHandler) SelectQuickReply(c *gin.Context) {
	var req quickReplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == "" {
		writeError(c, http.StatusBadRequest, "missing value")
		return
	}
	if req.Label == "" {
		req.Label = req.Value
	}

	ctx, cancel := withActionTimeout(c)
	defer cancel()

	snap, err := h.dialogue.SelectQuickReply(ctx, c.Param("id"), req.Value, req.Label)
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// SelectDate handles POST /api/sessions/:id/dates.
func (h *SessionHandler) SelectDate(c *gin.Context) {
	var req selectDateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := withActionTimeout(c)
	defer cancel()

	snap, err := h.dialogue.SelectDate(ctx, c.Param("id"), date, req.Label)
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

func withActionTimeout(c *gin.Context) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), actionTimeout)
}
