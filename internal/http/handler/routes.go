package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"searchapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, searchers service.SearcherService, dicts service.DictionaryService, snaps service.SnapshotService) {
	// Probes and build info
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/version", Version())

	// One-shot matching; compiles a throwaway automaton per request
	app.Post("/match", QuickMatch(searchers))
	app.Post("/replace", QuickSubstitute(searchers))

	// Searcher sessions
	app.Post("/searchers", CreateSearcher(searchers))
	app.Get("/searchers/:id", GetSearcher(searchers))
	app.Delete("/searchers/:id", FreeSearcher(searchers))
	app.Post("/searchers/:id/match", MatchText(searchers))
	app.Post("/searchers/:id/match/batch", MatchTextBatch(searchers))
	app.Post("/searchers/:id/replace", SubstituteText(searchers))
	app.Post("/searchers/:id/snapshots", SnapshotSearcher(searchers))

	// Keyword dictionaries
	app.Post("/dictionaries", CreateDictionary(dicts))
	app.Get("/dictionaries", ListDictionaries(dicts))
	app.Get("/dictionaries/:id", GetDictionary(dicts))
	app.Get("/dictionaries/:id/entries", GetDictionaryEntries(dicts))
	app.Put("/dictionaries/:id/entries", UpdateDictionaryEntries(dicts))
	app.Delete("/dictionaries/:id", DeleteDictionary(dicts))

	// Persisted snapshots
	app.Get("/snapshots", ListSnapshots(snaps))
	app.Get("/snapshots/:id", GetSnapshot(snaps))
	app.Get("/snapshots/:id/url", GetSnapshotURL(snaps))
	app.Delete("/snapshots/:id", DeleteSnapshot(snaps))
}
