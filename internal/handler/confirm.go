package handler

import (
	"confirm-core/internal/handler/response"
	"confirm-core/internal/service/confirm"
	"confirm-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// ConfirmHandler exposes the user's accept/deny decisions and a queue view
// over HTTP. Decisions are turned into coordinator events; the reply only
// acknowledges intake, results flow out through the messaging topics.
type ConfirmHandler struct {
	coordinator *confirm.Coordinator
}

func NewConfirmHandler(coordinator *confirm.Coordinator) *ConfirmHandler {
	return &ConfirmHandler{coordinator: coordinator}
}

type acceptRequest struct {
	Password string `json:"password" binding:"required"`
}

type denyRequest struct {
	ID string `json:"id"` // empty denies the whole queue
}

// Accept godoc
// @Summary Accept all queued transactions
// @Description Issues unlock requests for every queued transaction with the supplied password
// @Tags confirm
// @Accept json
// @Produce json
// @Router /confirm/accept [post]
func (h *ConfirmHandler) Accept(c *gin.Context) {
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if req.Password == "" {
		response.Error(c, errno.ErrEmptyPassword)
		return
	}

	if err := h.coordinator.Dispatch(c.Request.Context(), confirm.Accepted{Password: req.Password}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"accepted": true})
}

// Deny godoc
// @Summary Deny one or all queued transactions
// @Tags confirm
// @Accept json
// @Produce json
// @Router /confirm/deny [post]
func (h *ConfirmHandler) Deny(c *gin.Context) {
	var req denyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	if err := h.coordinator.Dispatch(c.Request.Context(), confirm.Denied{TxID: req.ID}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"denied": true})
}

// Queue godoc
// @Summary List transactions awaiting confirmation
// @Tags confirm
// @Produce json
// @Router /confirm/queue [get]
func (h *ConfirmHandler) Queue(c *gin.Context) {
	txs, err := h.coordinator.QueueSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]gin.H, 0, len(txs))
	for _, tx := range txs {
		items = append(items, gin.H{
			"id":           tx.ID,
			"from_address": tx.FromAddress,
			"to_address":   tx.ToAddress,
			"value":        tx.Value.String(),
			"message_id":   tx.MessageID,
		})
	}
	response.Success(c, gin.H{"transactions": items})
}
