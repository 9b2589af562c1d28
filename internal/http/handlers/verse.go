package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/verses"
)

// VerseOfDay serves the public rotating daily verse, with the reference
// in structured form when it parses.
func VerseOfDay(ctx *gin.Context) {
	v := verses.Today()

	payload := gin.H{
		"text":      v.Text,
		"reference": v.Reference,
	}

	if ref, err := domain.ParseVerseReference(v.Reference); err == nil {
		payload["parsedReference"] = ref
	}

	ctx.JSON(http.StatusOK, gin.H{"data": payload})
}
