package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
	"searchapi/internal/service"
)

type createDictionaryRequest struct {
	Name      string                  `json:"name"`
	RevisedOn bjtime.Date             `json:"revised_on,omitempty"`
	Entries   []model.DictionaryEntry `json:"entries"`
}

type updateDictionaryRequest struct {
	RevisedOn bjtime.Date             `json:"revised_on,omitempty"`
	Entries   []model.DictionaryEntry `json:"entries"`
}

type entriesResponse struct {
	Items []model.DictionaryEntry `json:"data"`
}

// CreateDictionary stores a named keyword set. Entries are compile-checked
// before anything is written.
//
// @Summary Create a dictionary
// @Tags dictionaries
// @Accept json
// @Produce json
// @Param body body createDictionaryRequest true "name and entries"
// @Success 201 {object} model.Dictionary
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /dictionaries [post]
func CreateDictionary(svc service.DictionaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDictionaryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		dict, err := svc.Create(c.UserContext(), req.Name, req.RevisedOn, req.Entries)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dict)
	}
}

// ListDictionaries returns dictionaries with limit & offset pagination.
//
// @Summary List dictionaries
// @Tags dictionaries
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} service.DictionaryListResult
// @Failure 400 {object} errorPayload
// @Router /dictionaries [get]
func ListDictionaries(svc service.DictionaryService) fiber.Handler {
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

// GetDictionary returns a dictionary by ID.
//
// @Summary Get a dictionary
// @Tags dictionaries
// @Produce json
// @Param id path string true "dictionary ID"
// @Success 200 {object} model.Dictionary
// @Failure 404 {object} errorPayload
// @Router /dictionaries/{id} [get]
func GetDictionary(svc service.DictionaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		dict, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dict)
	}
}

// GetDictionaryEntries returns the entries of a dictionary in insertion
// order.
//
// @Summary Get dictionary entries
// @Tags dictionaries
// @Produce json
// @Param id path string true "dictionary ID"
// @Success 200 {object} entriesResponse
// @Failure 404 {object} errorPayload
// @Router /dictionaries/{id}/entries [get]
func GetDictionaryEntries(svc service.DictionaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		entries, err := svc.GetEntries(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entriesResponse{Items: entries})
	}
}

// UpdateDictionaryEntries replaces the entry set of a dictionary and bumps
// its revision date.
//
// @Summary Replace dictionary entries
// @Tags dictionaries
// @Accept json
// @Produce json
// @Param id path string true "dictionary ID"
// @Param body body updateDictionaryRequest true "revision date and entries"
// @Success 200 {object} model.Dictionary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /dictionaries/{id}/entries [put]
func UpdateDictionaryEntries(svc service.DictionaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDictionaryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		dict, err := svc.Update(c.UserContext(), id, req.RevisedOn, req.Entries)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dict)
	}
}

// DeleteDictionary removes a dictionary together with its entries.
//
// @Summary Delete a dictionary
// @Tags dictionaries
// @Param id path string true "dictionary ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /dictionaries/{id} [delete]
func DeleteDictionary(svc service.DictionaryService) fiber.Handler {
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
