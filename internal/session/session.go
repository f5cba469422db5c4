// Package session holds the state of one prompt comparison and sequences
// the user-visible flow: generate, display, record preference, reset.
//
// The coordinator performs no I/O. Callers ask it for the request to send,
// perform the call, and report the outcome back. This keeps every
// transition testable without a backend or a terminal.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/timvw/prompt-selector/internal/model"
)

// State is the coordinator's position in the comparison flow.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateAwaitingSelection
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateAwaitingSelection:
		return "awaiting-selection"
	case StateSelected:
		return "selected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Variant identifies one of the two response variants.
type Variant int

const (
	VariantA Variant = iota
	VariantB
)

func (v Variant) String() string {
	if v == VariantB {
		return "B"
	}
	return "A"
}

// User-facing alert texts.
const (
	AlertGenerate = "Error generating responses. Please try again."
	AlertExport   = "Error exporting data. Please try again."
)

var (
	// ErrEmptyPrompt is returned when the prompt is empty or whitespace only.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrBusy is returned while a generation is in flight.
	ErrBusy = errors.New("generation already in progress")
	// ErrAwaitingSelection is returned when a new generation is attempted
	// before the current pair has been judged.
	ErrAwaitingSelection = errors.New("choose a response before generating again")
	// ErrNoPromptID is returned when the backend answered without an id.
	ErrNoPromptID = errors.New("backend returned no prompt id")
)

// Coordinator owns all mutable state of the comparison UI.
type Coordinator struct {
	modelName string
	params    [2]model.SamplingParams

	state     State
	prompt    string
	id        model.PromptID
	responseA string
	responseB string
	choice    model.Preference

	stats *model.Stats
	alert string

	bannerVisible bool
	bannerSeq     int
}

// New creates an idle coordinator with the given variant configurations.
func New(modelName string, a, b model.SamplingParams) *Coordinator {
	return &Coordinator{
		modelName: modelName,
		params:    [2]model.SamplingParams{a.Normalize(), b.Normalize()},
	}
}

func (c *Coordinator) State() State { return c.state }
func (c *Coordinator) Prompt() string { return c.prompt }
func (c *Coordinator) ID() model.PromptID { return c.id }
func (c *Coordinator) Choice() model.Preference { return c.choice }
func (c *Coordinator) Stats() *model.Stats { return c.stats }
func (c *Coordinator) Alert() string { return c.alert }
func (c *Coordinator) BannerVisible() bool { return c.bannerVisible }
func (c *Coordinator) ModelName() string { return c.modelName }
func (c *Coordinator) Params(v Variant) model.SamplingParams { return c.params[v] }

// Responses returns the two generated texts.
func (c *Coordinator) Responses() (a, b string) {
	return c.responseA, c.responseB
}

// HasResponses reports whether a response pair is on display.
func (c *Coordinator) HasResponses() bool {
	return c.responseA != "" || c.responseB != ""
}

// Editable reports whether the prompt and parameters accept input.
// Edits are locked while generating and while a pair awaits judgement.
func (c *Coordinator) Editable() bool {
	return c.state == StateIdle || c.state == StateSelected
}

// CanGenerate reports whether a generate trigger would be accepted.
func (c *Coordinator) CanGenerate() bool {
	return c.Editable() && strings.TrimSpace(c.prompt) != ""
}

// CanSelect reports whether a choice would be accepted.
func (c *Coordinator) CanSelect() bool {
	return c.state == StateAwaitingSelection && c.id != ""
}

// SetPrompt replaces the prompt text. Ignored when not editable.
func (c *Coordinator) SetPrompt(s string) bool {
	if !c.Editable() {
		return false
	}
	c.prompt = s
	return true
}

// StepParam moves one sampling field of a variant by n steps.
func (c *Coordinator) StepParam(v Variant, f model.Field, n int) bool {
	if !c.Editable() {
		return false
	}
	c.params[v].Step(f, n)
	return true
}

// BeginGenerate validates the prompt and moves to StateGenerating, returning
// the request to send. On error the state is unchanged and nothing must be
// sent.
func (c *Coordinator) BeginGenerate() (model.GenerateRequest, error) {
	switch c.state {
	case StateGenerating:
		return model.GenerateRequest{}, ErrBusy
	case StateAwaitingSelection:
		return model.GenerateRequest{}, ErrAwaitingSelection
	}
	if strings.TrimSpace(c.prompt) == "" {
		return model.GenerateRequest{}, ErrEmptyPrompt
	}

	// Generating from the selected state starts a fresh pair for the
	// same prompt.
	c.clearPair()
	c.alert = ""
	c.state = StateGenerating
	return model.NewGenerateRequest(c.prompt, c.modelName, c.params[VariantA], c.params[VariantB]), nil
}

// CompleteGenerate applies the outcome of a generate call. A failure returns
// to idle with a user-facing alert. Results arriving in any state other than
// StateGenerating are discarded.
func (c *Coordinator) CompleteGenerate(resp *model.GenerateResponse, err error) error {
	if c.state != StateGenerating {
		return nil
	}
	if err == nil && (resp == nil || resp.ID == "") {
		err = ErrNoPromptID
	}
	if err != nil {
		c.state = StateIdle
		c.alert = AlertGenerate
		return err
	}
	c.id = resp.ID
	c.responseA = resp.ResponseA
	c.responseB = resp.ResponseB
	c.state = StateAwaitingSelection
	return nil
}

// Select records the user's choice locally. It is accepted at most once per
// pair; the caller must then record it with the backend and refresh stats.
// Returns false when the choice is ignored.
func (c *Coordinator) Select(choice model.Preference) bool {
	if !c.CanSelect() || !choice.Valid() {
		return false
	}
	c.choice = choice
	c.state = StateSelected
	return true
}

// PreferenceRecorded applies the outcome of the record call. On success the
// banner becomes visible and the returned sequence number identifies it for
// HideBanner. Failures are swallowed: no alert, the choice stays.
func (c *Coordinator) PreferenceRecorded(err error) (seq int, ok bool) {
	if err != nil || c.state != StateSelected {
		return 0, false
	}
	c.bannerSeq++
	c.bannerVisible = true
	return c.bannerSeq, true
}

// HideBanner dismisses the banner shown under seq. Timers of earlier
// banners are ignored.
func (c *Coordinator) HideBanner(seq int) {
	if seq == c.bannerSeq {
		c.bannerVisible = false
	}
}

// SetStats replaces the statistics snapshot.
func (c *Coordinator) SetStats(s *model.Stats) {
	if s != nil {
		c.stats = s
	}
}

// SetAlert shows a user-facing alert.
func (c *Coordinator) SetAlert(msg string) {
	c.alert = msg
}

// DismissAlert clears the current alert.
func (c *Coordinator) DismissAlert() {
	c.alert = ""
}

// Reset discards the judged pair and the prompt ("try another").
// Sampling parameters survive. Only valid in StateSelected.
func (c *Coordinator) Reset() bool {
	if c.state != StateSelected {
		return false
	}
	c.prompt = ""
	c.clearPair()
	c.state = StateIdle
	return true
}

func (c *Coordinator) clearPair() {
	c.id = ""
	c.responseA = ""
	c.responseB = ""
	c.choice = ""
	c.bannerVisible = false
	c.bannerSeq++
}
