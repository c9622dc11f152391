package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/werewolf-game/server/internal/game"
)

func normalizeCode(code string) string {
	return strings.ToUpper(code)
}

// GetRoom returns a sanitized room summary. Roles are never exposed here,
// not even after game over; the reveal travels only over the game_over
// event.
func GetRoom(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, exists := gm.GetRoomSummary(c.Param("code"))
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"room": summary})
	}
}

// RoomQR renders a QR code of the client join link for a live room, for
// handing a lobby around a table.
func RoomQR(gm *game.GameManager, clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := normalizeCode(c.Param("code"))
		if _, exists := gm.GetRoomSummary(code); !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}

		joinURL := fmt.Sprintf("%s/join/%s", strings.TrimRight(clientURL, "/"), code)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render qr code"})
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}
