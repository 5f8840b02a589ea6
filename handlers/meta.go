package handlers

import (
	"net/http"

	"foodie-api/models"
	"foodie-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the full order lifecycle for docs/Postman
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	info = append(info, gin.H{
		"from":  "any non-terminal",
		"to":    models.StatusCancelled,
		"actor": "user (own order) or admin",
	})
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"statuses":        models.AllStatuses,
		"terminal_states": []models.OrderStatus{models.StatusCompleted, models.StatusCancelled},
	})
}
