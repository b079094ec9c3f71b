package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/coldstore/internal/repository/mongodb"
)

// objectID parses a path or body id, aborting the request with a 400 when it
// is not a valid ObjectID hex. The bool reports success.
func objectID(c *gin.Context, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeStoreError maps entity-store failures onto the HTTP taxonomy:
// missing documents 404, uniqueness conflicts 400 naming the field, anything
// else a generic 500 that does not leak internals.
func writeStoreError(c *gin.Context, err error) {
	var dup *mongodb.DuplicateError
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "record not found"})
	case errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"message": dup.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
