package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorAbortsWithEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, "already looted")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":409,"message":"already looted"}`, w.Body.String())
}

func TestSuccessAndCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, gin.H{"id": "a"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"id":"a"}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Created(c, gin.H{"id": "b"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
