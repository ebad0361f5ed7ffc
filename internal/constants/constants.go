package constants

import "time"

// Centralized constants for env keys, resolver routes and logging fields.
const (
	// Environment variable keys
	EnvConfigPath    = "ARENA_CONFIG"
	EnvResolverURL   = "ARENA_RESOLVER_URL"
	EnvParticipantID = "ARENA_PARTICIPANT_ID"
	EnvArchivePath   = "ARENA_ARCHIVE_DB"
	EnvDebug         = "ARENA_DEBUG"
	EnvMockAddr      = "ARENA_MOCK_ADDR"
	EnvMockSeed      = "ARENA_MOCK_SEED"

	// HTTP headers and content types
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Defaults applied when neither config file nor environment set a value.
const (
	DefaultConfigPath      = "./arena_config.json"
	DefaultArchivePath     = "./data/arena.db"
	DefaultResolverURL     = "http://127.0.0.1:8080"
	DefaultPollInterval    = 2 * time.Second
	DefaultResolverTimeout = 30 * time.Second
)

// Routes exposed by the resolver (and mirrored by the mock resolver).
const (
	RouteAPIPrefix          = "/api"
	RouteParticipantSummary = "/participants/:participantID/summary"
	RouteParticipantBattle  = "/participants/:participantID/battle"
	RouteBattleMove         = "/battles/:battleID/move"
	RouteBattleEnd          = "/battles/:battleID/end"
	RouteVersion            = "/version"
	RouteHealth             = "/healthz"
)

// Common JSON response keys used by the resolver envelope.
const (
	JSONKeyStatus  = "status"
	JSONKeyData    = "data"
	JSONKeyError   = "error"
	JSONKeyMessage = "message"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Common error messages used by the mock resolver handlers.
const (
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidBattleID   = "Invalid battle ID"
	ErrBattleNotFound    = "Battle not found"
	ErrUnknownMove       = "Unknown move"
	ErrMoveExhausted     = "Move has no uses left"
	ErrBattleConcluded   = "Battle already concluded"
	ErrBattleStillActive = "Battle is still active"
	ErrNotParticipant    = "Participant not in this battle"
)

// Logging field names
const (
	LogFieldParticipant = "participant_id"
	LogFieldBattleID    = "battle_id"
	LogFieldMove        = "move"
	LogFieldTurns       = "turns"
	LogFieldSeen        = "seen_turns"
	LogFieldOutcome     = "outcome"
	LogFieldAddr        = "addr"
)
