package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/RAAS/internal/pkg/statistics"
)

type StatisticsController struct {
	collector *statistics.Collector
}

func NewStatisticsController(collector *statistics.Collector) *StatisticsController {
	return &StatisticsController{collector: collector}
}

// HandleSummary returns the dashboard counters at the at query instant.
func (sc *StatisticsController) HandleSummary(c *fiber.Ctx) error {
	at, err := queryTime(c, "at")
	if err != nil {
		return respondError(c, err)
	}
	days, err := queryDays(c)
	if err != nil {
		return respondError(c, err)
	}

	summary, err := sc.collector.Summary(at, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
