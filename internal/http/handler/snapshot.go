package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"searchapi/internal/service"
)

type presignResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// ListSnapshots returns snapshot metadata with limit & offset pagination.
//
// @Summary List snapshots
// @Tags snapshots
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} service.SnapshotListResult
// @Failure 400 {object} errorPayload
// @Router /snapshots [get]
func ListSnapshots(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetSnapshot returns snapshot metadata by ID. The payload itself stays in
// object storage; use the url endpoint to download it.
//
// @Summary Get a snapshot
// @Tags snapshots
// @Produce json
// @Param id path string true "snapshot ID"
// @Success 200 {object} model.Snapshot
// @Failure 404 {object} errorPayload
// @Router /snapshots/{id} [get]
func GetSnapshot(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		snap, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(snap)
	}
}

// GetSnapshotURL returns a time-limited download URL for the snapshot
// object.
//
// @Summary Presign a snapshot download
// @Tags snapshots
// @Produce json
// @Param id path string true "snapshot ID"
// @Param expires_in query int false "URL lifetime in seconds" default(900)
// @Success 200 {object} presignResponse
// @Failure 404 {object} errorPayload
// @Router /snapshots/{id}/url [get]
func GetSnapshotURL(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		expStr := c.Query("expires_in", "900")
		expiresIn, err := strconv.Atoi(expStr)
		if err != nil || expiresIn <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expires_in")
		}

		url, err := svc.PresignDownload(c.UserContext(), id, time.Duration(expiresIn)*time.Second)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(presignResponse{URL: url, ExpiresIn: expiresIn})
	}
}

// DeleteSnapshot removes a snapshot from storage and its metadata row.
//
// @Summary Delete a snapshot
// @Tags snapshots
// @Param id path string true "snapshot ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /snapshots/{id} [delete]
func DeleteSnapshot(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
