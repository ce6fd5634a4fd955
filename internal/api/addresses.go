// ABOUTME: HTTP handlers for address CRUD with CEP enrichment
// ABOUTME: Street, neighborhood, city, and state come from the ViaCEP lookup

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mesusers/mes-users/internal/auth"
	"github.com/mesusers/mes-users/internal/store"
	"github.com/mesusers/mes-users/internal/viacep"
)

// createAddressRequest is the body for address creation. Only CEP, number,
// and complement are caller-supplied; the rest is looked up.
type createAddressRequest struct {
	UserID     int64  `json:"userId"`
	Cep        string `json:"cep"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

// updateAddressRequest carries a partial address update. A new CEP triggers
// a fresh lookup; ownership transfers go through userId.
type updateAddressRequest struct {
	UserID     *int64  `json:"userId"`
	Cep        *string `json:"cep"`
	Number     *string `json:"number"`
	Complement *string `json:"complement"`
}

// addressResponse is the address shape with its owner's public profile.
type addressResponse struct {
	ID           int64        `json:"id"`
	Cep          string       `json:"cep"`
	Street       string       `json:"street"`
	Number       string       `json:"number"`
	Complement   string       `json:"complement"`
	Neighborhood string       `json:"neighborhood"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	User         userResponse `json:"user"`
}

func newAddressResponse(a *store.Address, owner *store.User) addressResponse {
	return addressResponse{
		ID:           a.ID,
		Cep:          a.Cep,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		User:         newUserResponse(owner),
	}
}

// respondAddress fetches the owner and writes the combined shape.
func (s *Server) respondAddress(w http.ResponseWriter, r *http.Request, message string, a *store.Address) {
	owner, err := s.store.GetUser(r.Context(), a.UserID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondSuccess(w, message, newAddressResponse(a, owner))
}

// respondCepError translates lookup failures. Unknown or bad CEPs are the
// caller's problem; anything else is an upstream fault.
func (s *Server) respondCepError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, viacep.ErrCepNotFound), errors.Is(err, viacep.ErrInvalidCep):
		respondError(w, http.StatusUnprocessableEntity, "cep not found")
	default:
		s.logger.Error("cep lookup failed", "error", err)
		respondError(w, http.StatusBadGateway, "cep lookup unavailable")
	}
}

// handleCreateAddress creates an address for a user, enriched from the CEP.
// Only the target user or an admin may create it.
func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 || req.Cep == "" {
		respondError(w, http.StatusBadRequest, "userId and cep are required")
		return
	}

	actor := auth.MustFromContext(r.Context()).User
	if !auth.CanAct(actor, &req.UserID) {
		respondForbidden(w)
		return
	}

	looked, err := s.cep.Lookup(r.Context(), req.Cep)
	if err != nil {
		s.respondCepError(w, err)
		return
	}

	addr := &store.Address{
		UserID:       req.UserID,
		Cep:          looked.Cep,
		Street:       looked.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: looked.Neighborhood,
		City:         looked.City,
		State:        looked.State,
	}
	if addr.Complement == "" {
		addr.Complement = looked.Complement
	}
	if err := s.store.CreateAddress(r.Context(), addr); err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("address created", "address_id", addr.ID, "user_id", addr.UserID)
	s.respondAddress(w, r, "Address created", addr)
}

// handleGetAddress returns one address with its owner.
func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	addr, err := s.store.GetAddress(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondAddress(w, r, "Address found", addr)
}

// handleListAddresses returns one page of addresses with their owners.
func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	addrs, err := s.store.ListAddresses(r.Context(), page, pageSize)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	total, err := s.store.CountAddresses(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	items := make([]addressResponse, 0, len(addrs))
	for _, a := range addrs {
		owner, err := s.store.GetUser(r.Context(), a.UserID)
		if err != nil {
			s.respondStoreError(w, err)
			return
		}
		items = append(items, newAddressResponse(a, owner))
	}

	respondSuccess(w, "Addresses listed", newPaginated(items, page, total, pageSize))
}

// handleUpdateAddress applies a partial update. The actor must own the
// address (or be admin); transferring ownership additionally requires acting
// for the new owner.
func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	addr, err := s.store.GetAddress(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	actor := auth.MustFromContext(r.Context()).User
	if !auth.CanAct(actor, &addr.UserID) {
		respondForbidden(w)
		return
	}

	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID != nil && !auth.CanAct(actor, req.UserID) {
		respondForbidden(w)
		return
	}

	update := store.AddressUpdate{
		UserID:     req.UserID,
		Number:     req.Number,
		Complement: req.Complement,
	}
	if req.Cep != nil {
		looked, err := s.cep.Lookup(r.Context(), *req.Cep)
		if err != nil {
			s.respondCepError(w, err)
			return
		}
		update.Cep = &looked.Cep
		update.Street = &looked.Street
		update.Neighborhood = &looked.Neighborhood
		update.City = &looked.City
		update.State = &looked.State
	}

	updated, err := s.store.UpdateAddress(r.Context(), id, update)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("address updated", "address_id", id, "actor_id", actor.ID)
	s.respondAddress(w, r, "Address updated", updated)
}

// handleDeleteAddress removes an address. Owner or admin only.
func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	addr, err := s.store.GetAddress(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	actor := auth.MustFromContext(r.Context()).User
	if !auth.CanAct(actor, &addr.UserID) {
		respondForbidden(w)
		return
	}

	deleted, err := s.store.DeleteAddress(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("address deleted", "address_id", id, "actor_id", actor.ID)
	s.respondAddress(w, r, "Address deleted", deleted)
}
