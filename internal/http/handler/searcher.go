package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"searchapi/internal/model"
	"searchapi/internal/service"
	"searchapi/internal/textsearch"
)

// quickRequest carries entries and text for one-shot matching. The compiled
// automaton is discarded after the request.
type quickRequest struct {
	Entries []model.DictionaryEntry `json:"entries"`
	Text    string                  `json:"text"`
}

type createSearcherRequest struct {
	Entries      []model.DictionaryEntry `json:"entries,omitempty"`
	DictionaryID string                  `json:"dictionary_id,omitempty"`
	SnapshotID   string                  `json:"snapshot_id,omitempty"`
	TTLSec       int                     `json:"ttl_sec,omitempty"`
}

// sessionMatchRequest selects how a session matches text. Mode "all" (the
// default) reports every occurrence; "line" reports matching lines.
type sessionMatchRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
}

type substituteRequest struct {
	Text string `json:"text"`
}

type batchMatchRequest struct {
	Texts []string `json:"texts"`
	Jobs  int      `json:"jobs,omitempty"`
}

type matchResponse struct {
	Matches []textsearch.Match `json:"matches"`
}

type lineMatchResponse struct {
	Lines []textsearch.LineMatch `json:"lines"`
}

type substituteResponse struct {
	Text string `json:"text"`
}

type batchMatchResponse struct {
	Results [][]textsearch.Match `json:"results"`
}

// QuickMatch matches text against entries sent in the same request.
//
// @Summary One-shot keyword match
// @Tags search
// @Accept json
// @Produce json
// @Param body body quickRequest true "entries and text"
// @Success 200 {object} matchResponse
// @Failure 400 {object} errorPayload
// @Router /match [post]
func QuickMatch(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req quickRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		matches, err := svc.QuickMatch(c.UserContext(), req.Entries, req.Text)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(matchResponse{Matches: matches})
	}
}

// QuickSubstitute replaces keyword occurrences using entries sent in the
// same request.
//
// @Summary One-shot keyword substitution
// @Tags search
// @Accept json
// @Produce json
// @Param body body quickRequest true "entries and text"
// @Success 200 {object} substituteResponse
// @Failure 400 {object} errorPayload
// @Router /replace [post]
func QuickSubstitute(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req quickRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		text, err := svc.QuickSubstitute(c.UserContext(), req.Entries, req.Text)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(substituteResponse{Text: text})
	}
}

// CreateSearcher compiles an automaton and registers a session for it.
// Exactly one of entries, dictionary_id or snapshot_id selects the source.
//
// @Summary Create a searcher session
// @Tags searchers
// @Accept json
// @Produce json
// @Param body body createSearcherRequest true "automaton source"
// @Success 201 {object} registry.Session
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /searchers [post]
func CreateSearcher(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSearcherRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		sess, err := svc.Create(c.UserContext(), service.CreateSearcherRequest{
			Entries:      req.Entries,
			DictionaryID: req.DictionaryID,
			SnapshotID:   req.SnapshotID,
			TTLSec:       req.TTLSec,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}

// GetSearcher returns session metadata for a live searcher.
//
// @Summary Get a searcher session
// @Tags searchers
// @Produce json
// @Param id path string true "session ID"
// @Success 200 {object} registry.Session
// @Failure 404 {object} errorPayload
// @Failure 410 {object} errorPayload
// @Router /searchers/{id} [get]
func GetSearcher(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		sess, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// FreeSearcher drops a searcher session. Freeing an already expired session
// succeeds; freeing an unknown one is 404.
//
// @Summary Free a searcher session
// @Tags searchers
// @Param id path string true "session ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /searchers/{id} [delete]
func FreeSearcher(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Free(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MatchText runs a searcher session over text.
//
// @Summary Match text with a session
// @Tags searchers
// @Accept json
// @Produce json
// @Param id path string true "session ID"
// @Param body body sessionMatchRequest true "text and match mode"
// @Success 200 {object} matchResponse
// @Failure 404 {object} errorPayload
// @Failure 410 {object} errorPayload
// @Router /searchers/{id}/match [post]
func MatchText(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req sessionMatchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		switch req.Mode {
		case "", "all":
			matches, err := svc.Match(c.UserContext(), id, req.Text)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(matchResponse{Matches: matches})
		case "line":
			lines, err := svc.MatchLines(c.UserContext(), id, req.Text)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(lineMatchResponse{Lines: lines})
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_MODE", "mode must be \"all\" or \"line\"")
		}
	}
}

// MatchTextBatch runs a searcher session over several texts concurrently.
//
// @Summary Match a batch of texts with a session
// @Tags searchers
// @Accept json
// @Produce json
// @Param id path string true "session ID"
// @Param body body batchMatchRequest true "texts and worker count"
// @Success 200 {object} batchMatchResponse
// @Failure 404 {object} errorPayload
// @Failure 410 {object} errorPayload
// @Router /searchers/{id}/match/batch [post]
func MatchTextBatch(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req batchMatchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		results, err := svc.MatchBatch(c.UserContext(), id, req.Texts, req.Jobs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(batchMatchResponse{Results: results})
	}
}

// SubstituteText replaces keyword occurrences in text using a searcher
// session.
//
// @Summary Substitute text with a session
// @Tags searchers
// @Accept json
// @Produce json
// @Param id path string true "session ID"
// @Param body body substituteRequest true "text"
// @Success 200 {object} substituteResponse
// @Failure 404 {object} errorPayload
// @Failure 410 {object} errorPayload
// @Router /searchers/{id}/replace [post]
func SubstituteText(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req substituteRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		text, err := svc.Substitute(c.UserContext(), id, req.Text)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(substituteResponse{Text: text})
	}
}

// SnapshotSearcher persists the session's automaton as a snapshot object.
//
// @Summary Snapshot a searcher session
// @Tags searchers
// @Produce json
// @Param id path string true "session ID"
// @Success 201 {object} model.Snapshot
// @Failure 404 {object} errorPayload
// @Failure 410 {object} errorPayload
// @Router /searchers/{id}/snapshots [post]
func SnapshotSearcher(svc service.SearcherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		snap, err := svc.Snapshot(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(snap)
	}
}
