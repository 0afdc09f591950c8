package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/louisbranch/arbor.space/internal/platform/httpx"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/export"
)

func (h *Handler) handleGenerateShareToken(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.GenerateShareToken(r.Context(), r.PathValue("treeID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTreePayload(record))
}

type shareSettingsRequest struct {
	IsPublic   *bool `json:"isPublic"`
	HideLiving *bool `json:"hideLiving"`
}

func (h *Handler) handleUpdateShareSettings(w http.ResponseWriter, r *http.Request) {
	var req shareSettingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.svc.UpdateShareSettings(r.Context(), r.PathValue("treeID"), viewer(r), app.ShareSettingsInput{
		IsPublic:   req.IsPublic,
		HideLiving: req.HideLiving,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTreePayload(record))
}

func (h *Handler) handleListAccess(w http.ResponseWriter, r *http.Request) {
	grants, err := h.svc.ListAccess(r.Context(), r.PathValue("treeID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payloads := make([]accessPayload, 0, len(grants))
	for _, grant := range grants {
		payloads = append(payloads, toAccessPayload(grant))
	}
	httpx.WriteJSON(w, http.StatusOK, payloads)
}

type inviteRequest struct {
	Email string `json:"email"`
	Level string `json:"level"`
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	grant, err := h.svc.Invite(r.Context(), r.PathValue("treeID"), viewer(r), req.Email, req.Level)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccessPayload(grant))
}

type revokeRequest struct {
	GrantID string `json:"grantId"`
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.svc.Revoke(r.Context(), r.PathValue("treeID"), viewer(r), req.GrantID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

func (h *Handler) handleSharedTree(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.SharedTree(r.Context(), r.PathValue("token"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, treeViewPayload{
		treePayload: toTreePayload(view.Tree),
		People:      toPersonPayloads(view.People),
	})
}

func boolQuery(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && value
}

// handleExport streams a rendered export as an attachment download.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	opts := export.Options{
		IncludePrivate: boolQuery(r, "includePrivate"),
		IncludeNotes:   boolQuery(r, "includeNotes"),
		IncludeSources: boolQuery(r, "includeSources"),
	}
	result, err := h.svc.Export(r.Context(), r.PathValue("treeID"), viewer(r), format, opts)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}
