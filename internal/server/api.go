package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/johann/setlab/internal/errors"
	"github.com/johann/setlab/internal/sets"
	"github.com/johann/setlab/internal/version"
)

// PowerSetRequest is the body of POST /powerset.
// A missing elements key is treated as an empty list.
type PowerSetRequest struct {
	Elements string `json:"elements"`
}

// PowerSetResponse is returned by POST /powerset
type PowerSetResponse struct {
	PowerSet [][]string `json:"powerset"`
}

// CheckRequest is the body of POST /check
type CheckRequest struct {
	SetA string `json:"setA"`
	SetB string `json:"setB"`
}

// CheckResponse is returned by POST /check
type CheckResponse struct {
	Equal bool `json:"equal"`
}

func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":       s.config.Title,
		"MaxElements": s.elementLimit(),
		"Version":     version.Get().Version,
	})
}

func (s *Server) handlePowerSet(c *gin.Context) {
	var req PowerSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("invalid request body", err))
		return
	}

	elements := sets.Parse(req.Elements)

	limit := s.elementLimit()
	if len(elements) > limit {
		_ = c.Error(apperrors.ValidationError(fmt.Sprintf("too many elements: %d (max %d)", len(elements), limit)).
			WithContext("elements", len(elements)).
			WithContext("max_elements", limit))
		return
	}

	result, err := sets.PowerSet(elements)
	if err != nil {
		_ = c.Error(apperrors.InternalError("failed to compute power set", err))
		return
	}

	s.metrics.powerSetElements.Observe(float64(len(elements)))
	s.metrics.powerSetSubsets.Add(float64(len(result)))

	c.JSON(http.StatusOK, PowerSetResponse{PowerSet: result})
}

func (s *Server) handleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("invalid request body", err))
		return
	}

	equal := sets.Equal(req.SetA, req.SetB)

	s.metrics.checkResults.WithLabelValues(strconv.FormatBool(equal)).Inc()

	c.JSON(http.StatusOK, CheckResponse{Equal: equal})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":        s.config.Title,
		"max_elements": s.elementLimit(),
	})
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
