package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/session"
)

// ViewController exposes the per-browser view state.
type ViewController struct {
	sessions *session.Manager
}

func NewViewController(sessions *session.Manager) *ViewController {
	return &ViewController{sessions: sessions}
}

// Get returns the view state of the current session.
// GET /api/session/view
func (vc *ViewController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, vc.sessions.View(c.Request.Context()))
}

// Update changes the view state of the current session.
// PUT /api/session/view
func (vc *ViewController) Update(c *gin.Context) {
	var patch session.ViewStatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	view, err := vc.sessions.UpdateView(c.Request.Context(), patch)
	if err != nil {
		if errors.Is(err, session.ErrInvalidViewMode) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update view state")
		return
	}
	c.JSON(http.StatusOK, view)
}
