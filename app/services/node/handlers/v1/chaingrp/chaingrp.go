// Package chaingrp maintains the group of handlers for chain access.
package chaingrp

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/state"
	"github.com/votechain/votechain/foundation/events"
	"github.com/votechain/votechain/foundation/web"
)

// Handlers manages the set of chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Winner returns the current result of the vote along the canonical chain.
func (h Handlers) Winner(w http.ResponseWriter, r *http.Request) {
	winner, counts := h.State.Winner()

	tally := make(map[string]int, len(counts))
	for vote, n := range counts {
		tally[string(rune(vote))] = n
	}

	resp := winnerResponse{
		Winner: string(rune(winner)),
		Tally:  tally,
	}

	if err := web.Respond(r.Context(), w, resp, http.StatusOK); err != nil {
		h.Log.Errorw("winner", "ERROR", err)
	}
}

// Chain returns a summary of the node's view of the chain.
func (h Handlers) Chain(w http.ResponseWriter, r *http.Request) {
	resp := chainResponse{
		Genesis:     h.State.Genesis().Hex(),
		Tip:         h.State.Tip().Hex(),
		Depth:       h.State.Depth(),
		Attached:    h.State.BlockCount(),
		Pending:     h.State.PendingCount(),
		Queued:      h.State.QueueCount(),
		StagedVotes: h.State.StagingCount(),
	}

	if err := web.Respond(r.Context(), w, resp, http.StatusOK); err != nil {
		h.Log.Errorw("chain", "ERROR", err)
	}
}

// Blocks returns every attached block in insertion order.
func (h Handlers) Blocks(w http.ResponseWriter, r *http.Request) {
	infos := h.State.Blocks()

	blocks := make([]blockResponse, len(infos))
	for i, info := range infos {
		blocks[i] = blockResponse{
			Hash:     info.Hash.Hex(),
			Parent:   info.Parent.Hex(),
			Votes:    info.Votes,
			Children: info.Children,
		}
	}

	if err := web.Respond(r.Context(), w, blocks, http.StatusOK); err != nil {
		h.Log.Errorw("blocks", "ERROR", err)
	}
}

// SubmitAct records a vote on this node and shares it with the network.
func (h Handlers) SubmitAct(w http.ResponseWriter, r *http.Request) {
	var req actRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	vote := block.Action(req.Vote[0])

	h.Log.Infow("submit act", "traceid", uuid.NewString(), "vote", req.Vote)
	h.State.Act(vote)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "vote accepted",
	}

	if err := web.Respond(r.Context(), w, resp, http.StatusOK); err != nil {
		h.Log.Errorw("submit act", "ERROR", err)
	}
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Errorw("events", "ERROR", err)
		return
	}
	defer c.Close()

	id := uuid.NewString()

	ch := h.Evts.Acquire(id)
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}
