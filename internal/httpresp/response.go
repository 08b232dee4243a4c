package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// Result writes data with status, or renders err when it is set.
func Result(c *gin.Context, status int, data any, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(status, data)
}
