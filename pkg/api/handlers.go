package api

import (
	"net/http"

	"github.com/ssargent/twinkeys/pkg/keys"
)

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleStats godoc
//
//	@Summary		Catalog statistics
//	@Description	Count the models, elements and snapshots in the catalog
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	catalog.Stats
//	@Router			/stats [get]
//	@Security		ApiKeyAuth
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.sendFailure(w, r, err)
		return
	}
	s.metrics.UpdateCatalogStats(stats.Models, stats.Elements, stats.Snapshots)
	sendSuccess(w, stats)
}

// readKeyRequest decodes a KeyRequest and rejects an empty key
func readKeyRequest(w http.ResponseWriter, r *http.Request) (KeyRequest, bool) {
	var req KeyRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Key == "" {
		sendError(w, "key is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// codecResult records the outcome of a codec operation and sends the result
func (s *Server) codecResult(w http.ResponseWriter, r *http.Request, operation string, data interface{}, err error) {
	s.metrics.RecordCodecOperation(operation, err == nil)
	if err != nil {
		s.sendFailure(w, r, err)
		return
	}
	sendSuccess(w, data)
}

// handleToFullKey godoc
//
//	@Summary		Convert a short key to a full key
//	@Description	Prefix a 20-byte short key with the physical or logical flags word
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		KeyRequest	true	"Request body"
//	@Success		200	{object}	KeyResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/full [post]
//	@Security		ApiKeyAuth
func (s *Server) handleToFullKey(w http.ResponseWriter, r *http.Request) {
	req, ok := readKeyRequest(w, r)
	if !ok {
		return
	}
	full, err := keys.ToFullKey(req.Key, req.Logical)
	s.codecResult(w, r, "to_full_key", KeyResponse{Key: full}, err)
}

// handleToShortKey godoc
//
//	@Summary		Convert a full key to a short key
//	@Description	Drop the flags word of a 24-byte full key
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		KeyRequest	true	"Request body"
//	@Success		200	{object}	KeyResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/short [post]
//	@Security		ApiKeyAuth
func (s *Server) handleToShortKey(w http.ResponseWriter, r *http.Request) {
	req, ok := readKeyRequest(w, r)
	if !ok {
		return
	}
	short, err := keys.ToShortKey(req.Key)
	s.codecResult(w, r, "to_short_key", KeyResponse{Key: short}, err)
}

// handleToGUID godoc
//
//	@Summary		Render a key as a GUID string
//	@Description	Render the 20-byte element id of a key in GUID form with a trailing group
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		KeyRequest	true	"Request body"
//	@Success		200	{object}	GUIDResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/guid [post]
//	@Security		ApiKeyAuth
func (s *Server) handleToGUID(w http.ResponseWriter, r *http.Request) {
	req, ok := readKeyRequest(w, r)
	if !ok {
		return
	}
	guid, err := keys.ToGUIDString(req.Key)
	s.codecResult(w, r, "to_guid", GUIDResponse{GUID: guid}, err)
}

// handleToSystemID godoc
//
//	@Summary		Derive the system id of a key
//	@Description	Encode the last four bytes of a key as a varint system id
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		KeyRequest	true	"Request body"
//	@Success		200	{object}	SystemIDResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/sysid [post]
//	@Security		ApiKeyAuth
func (s *Server) handleToSystemID(w http.ResponseWriter, r *http.Request) {
	req, ok := readKeyRequest(w, r)
	if !ok {
		return
	}

	var resp SystemIDResponse
	sid, err := keys.ToSystemID(req.Key)
	if err == nil {
		resp.SystemID = sid
		resp.Value, err = keys.FromSystemID(sid)
	}
	s.codecResult(w, r, "to_system_id", resp, err)
}

// handleToXrefKey godoc
//
//	@Summary		Build an xref key
//	@Description	Join a model id and a full element key
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		XrefRequest	true	"Request body"
//	@Success		200	{object}	KeyResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/xref [post]
//	@Security		ApiKeyAuth
func (s *Server) handleToXrefKey(w http.ResponseWriter, r *http.Request) {
	var req XrefRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ModelID == "" || req.ElementKey == "" {
		sendError(w, "model_id and element_key are required", http.StatusBadRequest)
		return
	}

	xref, err := keys.ToXrefKey(keys.ModelIDFromURN(req.ModelID), req.ElementKey)
	s.codecResult(w, r, "to_xref_key", KeyResponse{Key: xref}, err)
}

// handleDecodeXrefKey godoc
//
//	@Summary		Split an xref key
//	@Description	Split an xref key into its model id and element key
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		KeyRequest	true	"Request body"
//	@Success		200	{object}	keys.Xref
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/xref/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecodeXrefKey(w http.ResponseWriter, r *http.Request) {
	req, ok := readKeyRequest(w, r)
	if !ok {
		return
	}
	modelID, elementKey, err := keys.DecodeXrefKey(req.Key)
	s.codecResult(w, r, "decode_xref_key", keys.Xref{ModelID: modelID, ElementKey: elementKey}, err)
}

// arrayOptions applies request overrides to the server defaults
func (s *Server) arrayOptions(req ArrayRequest) keys.ArrayOptions {
	opts := s.config.Keys
	if req.FullKeys != nil {
		opts.FullKeys = *req.FullKeys
	}
	if req.Logical != nil {
		opts.Logical = *req.Logical
	}
	if req.Strict != nil {
		opts.Strict = *req.Strict
	}
	return opts
}

// handleDecodeShortKeyArray godoc
//
//	@Summary		Decode a packed short-key array
//	@Description	Decode 20-byte records; a trailing partial record is dropped unless strict
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ArrayRequest	true	"Request body"
//	@Success		200	{object}	KeysResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/array/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecodeShortKeyArray(w http.ResponseWriter, r *http.Request) {
	var req ArrayRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	seq, err := keys.DecodeShortKeyArray(req.Text, s.arrayOptions(req))
	if err != nil {
		s.codecResult(w, r, "decode_short_key_array", nil, err)
		return
	}

	resp := KeysResponse{Keys: []string{}}
	for key := range seq {
		resp.Keys = append(resp.Keys, key)
	}
	resp.Count = len(resp.Keys)
	s.metrics.RecordKeysDecoded("short", resp.Count)
	s.codecResult(w, r, "decode_short_key_array", resp, nil)
}

// handleDecodeXrefKeyArray godoc
//
//	@Summary		Decode a packed xref-key array
//	@Description	Decode 40-byte records; a trailing partial record is dropped unless strict
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ArrayRequest	true	"Request body"
//	@Success		200	{object}	XrefsResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/keys/xref-array/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecodeXrefKeyArray(w http.ResponseWriter, r *http.Request) {
	var req ArrayRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	seq, err := keys.DecodeXrefKeyArray(req.Text, s.arrayOptions(req))
	if err != nil {
		s.codecResult(w, r, "decode_xref_key_array", nil, err)
		return
	}

	resp := XrefsResponse{Xrefs: []keys.Xref{}}
	for xref := range seq {
		resp.Xrefs = append(resp.Xrefs, xref)
	}
	resp.Count = len(resp.Xrefs)
	s.metrics.RecordKeysDecoded("xref", resp.Count)
	s.codecResult(w, r, "decode_xref_key_array", resp, nil)
}
