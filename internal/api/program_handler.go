package api

import (
	"net/http"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/engine"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler exposes the resolution engine: the client's current program
// per domain plus the four ordered histories.
type ProgramHandler struct {
	resolver *engine.Resolver
}

func NewProgramHandler(resolver *engine.Resolver) *ProgramHandler {
	return &ProgramHandler{resolver: resolver}
}

// clientKeyFromQuery reads the optional customerId/leadId query params. Both
// absent is allowed; the engine resolves that to an empty composite.
func clientKeyFromQuery(c *gin.Context) (domain.ClientKey, bool) {
	var key domain.ClientKey
	if s := c.Query("customerId"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid customerId format.")
			return key, false
		}
		key.CustomerID = &id
	}
	if s := c.Query("leadId"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid leadId format.")
			return key, false
		}
		key.LeadID = &id
	}
	return key, true
}

// GetResolvedProgram returns the composite for the client identified by the
// customerId and/or leadId query params.
func (h *ProgramHandler) GetResolvedProgram(c *gin.Context) {
	key, ok := clientKeyFromQuery(c)
	if !ok {
		return
	}

	composite, err := h.resolver.Resolve(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve program.")
		return
	}
	c.JSON(http.StatusOK, composite)
}
