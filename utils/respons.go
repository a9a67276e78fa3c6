package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// FormatRupiah memformat harga (satuan terkecil, tanpa desimal) menjadi
// "Rp25.000" untuk ditampilkan ke customer dan ke prompt AI.
func FormatRupiah(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := false
	if amount < 0 {
		neg = true
		s = s[1:]
	}
	out := ""
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out += "."
		}
		out += string(r)
	}
	if neg {
		return "-Rp" + out
	}
	return "Rp" + out
}
