// Package response writes the {status, data, message} envelope returned by
// every endpoint, successful or not.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultErrorMessage is used when a failure carries no text
const DefaultErrorMessage = "An unexpected error occurred"

type Envelope struct {
	Status  bool    `json:"status"`
	Data    any     `json:"data"`
	Message *string `json:"message"`
}

func Success(data any, message string) Envelope {
	env := Envelope{Status: true, Data: data}
	if message != "" {
		env.Message = &message
	}
	return env
}

func Failure(message string) Envelope {
	if message == "" {
		message = DefaultErrorMessage
	}
	return Envelope{Status: false, Message: &message}
}

// OK writes a successful envelope with HTTP 200
func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Success(data, message))
}

// Fail writes a failed envelope with HTTP 200. Domain errors never change
// the transport status.
func Fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Failure(message))
}

// Abort stops the chain with a failed envelope and an explicit status
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Failure(message))
}
