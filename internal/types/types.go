package types

import "time"

// Action is the category a decider assigns to one observation.
type Action string

const (
	ActionMonitor Action = "MONITOR"
	ActionAlert   Action = "ALERT"
	ActionError   Action = "ERROR"
)

// State is the monitor loop state. Every state except StateRunning is terminal.
type State string

const (
	StateRunning   State = "RUNNING"
	StateAlerted   State = "ALERTED"
	StateErrored   State = "ERRORED"
	StateExhausted State = "EXHAUSTED"
	// StateAborted ends a run on an advisory fault or cancellation.
	StateAborted State = "ABORTED"
)

// Thresholds is the (lower, upper) price pair supplied for one run.
type Thresholds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type Observation struct {
	Symbol     string     `json:"symbol"`
	Price      float64    `json:"price"`
	Thresholds Thresholds `json:"thresholds"`
	Iteration  int        `json:"iteration"`
	Time       time.Time  `json:"time"`
}

// Verdict is a decision plus the free text that produced it.
type Verdict struct {
	Action Action `json:"action"`
	Text   string `json:"text"`
	// Prompt is the request sent to a remote advisor, empty for local deciders.
	Prompt string `json:"prompt,omitempty"`
}

type Alert struct {
	RunID      string     `json:"run_id"`
	Symbol     string     `json:"symbol"`
	Price      float64    `json:"price"`
	Thresholds Thresholds `json:"thresholds"`
	Reason     string     `json:"reason"`
	Time       time.Time  `json:"time"`
}

type RunResult struct {
	RunID      string   `json:"run_id"`
	Symbol     string   `json:"symbol"`
	State      State    `json:"state"`
	Iterations int      `json:"iterations"`
	LastPrice  float64  `json:"last_price"`
	Verdict    Verdict  `json:"verdict"`
	History    []string `json:"history"`
}

// JournalEntry is one audit line per loop pass.
type JournalEntry struct {
	Time       string     `json:"time"`
	RunID      string     `json:"run_id"`
	Symbol     string     `json:"symbol"`
	Iteration  int        `json:"iteration"`
	Price      float64    `json:"price,omitempty"`
	Thresholds Thresholds `json:"thresholds"`
	Action     Action     `json:"action,omitempty"`
	Request    string     `json:"request,omitempty"`
	Response   string     `json:"response,omitempty"`
	Error      string     `json:"error,omitempty"`
}
