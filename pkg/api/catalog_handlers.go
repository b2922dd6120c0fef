package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

// catalogResult records the outcome of a catalog operation and sends the result
func (s *Server) catalogResult(w http.ResponseWriter, r *http.Request, operation string, start time.Time, data interface{}, err error) {
	s.metrics.RecordCatalogOperation(operation, err == nil, time.Since(start))
	if err != nil {
		s.sendFailure(w, r, err)
		return
	}
	sendSuccess(w, data)
}

// handlePutElement godoc
//
//	@Summary		Store an element
//	@Description	Store an element under a model, keyed by its short key
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Param			key	path		string	true	"Key"
//	@Param			request	body		structure.Element	true	"Request body"
//	@Success		200	{object}	structure.Element
//	@Failure		400	{object}	APIResponse
//	@Router			/elements/{model}/{key} [put]
//	@Security		ApiKeyAuth
func (s *Server) handlePutElement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var e structure.Element
	if err := decodeBody(w, r, &e); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.Key = chi.URLParam(r, "key")

	stored, err := s.store.PutElement(chi.URLParam(r, "model"), e)
	s.catalogResult(w, r, "put_element", start, stored, err)
}

// handleGetElement godoc
//
//	@Summary		Get an element
//	@Description	Get an element by model and key
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Param			key	path		string	true	"Key"
//	@Success		200	{object}	structure.Element
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/elements/{model}/{key} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetElement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	e, err := s.store.GetElement(chi.URLParam(r, "model"), chi.URLParam(r, "key"))
	s.catalogResult(w, r, "get_element", start, e, err)
}

// handleDeleteElement godoc
//
//	@Summary		Remove an element
//	@Description	Remove an element by model and key
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Param			key	path		string	true	"Key"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/elements/{model}/{key} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteElement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := chi.URLParam(r, "key")
	err := s.store.DeleteElement(chi.URLParam(r, "model"), key)
	s.catalogResult(w, r, "delete_element", start, map[string]string{"deleted": key}, err)
}

// handleListElements godoc
//
//	@Summary		List elements
//	@Description	List the elements of a model in key order
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Success		200	{array}	structure.Element
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/elements/{model} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	elements, err := s.store.ListElements(chi.URLParam(r, "model"))
	if elements == nil {
		elements = []structure.Element{}
	}
	s.catalogResult(w, r, "list_elements", start, elements, err)
}

// handleListLevels godoc
//
//	@Summary		List levels
//	@Description	List the levels of a model with their elevation
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Success		200	{array}	structure.Element
//	@Failure		400	{object}	APIResponse
//	@Router			/levels/{model} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	levels, err := s.store.Levels(r.Context(), chi.URLParam(r, "model"))
	if levels == nil {
		levels = []structure.Element{}
	}
	s.catalogResult(w, r, "list_levels", start, levels, err)
}

// handleListRooms godoc
//
//	@Summary		List rooms
//	@Description	List the rooms of a model, optionally only those on one level
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string	true	"Model"
//	@Param			level	query		string	false	"Level key"
//	@Success		200	{array}	structure.Element
//	@Failure		400	{object}	APIResponse
//	@Router			/rooms/{model} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rooms, err := s.store.Rooms(r.Context(), chi.URLParam(r, "model"), r.URL.Query().Get("level"))
	if rooms == nil {
		rooms = []structure.Element{}
	}
	s.catalogResult(w, r, "list_rooms", start, rooms, err)
}

// handleBuildStructure godoc
//
//	@Summary		Assemble a facility structure
//	@Description	Build the level, room and asset tree of a facility from catalog models
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StructureRequest	true	"Request body"
//	@Success		200	{object}	StructureResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/structure [post]
//	@Security		ApiKeyAuth
func (s *Server) handleBuildStructure(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req StructureRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FacilityURN == "" || len(req.Models) == 0 {
		sendError(w, "facility_urn and models are required", http.StatusBadRequest)
		return
	}

	models := make([]string, 0, len(req.Models))
	for _, m := range req.Models {
		models = append(models, keys.ModelURN(m))
	}

	built, err := structure.Load(r.Context(), s.store, req.FacilityURN, models)
	if err != nil {
		s.catalogResult(w, r, "build_structure", start, nil, err)
		return
	}

	resp := StructureResponse{
		Tree:     built.Tree(),
		Snapshot: built.Snapshot(),
	}
	if req.Save {
		resp.SnapshotID, err = s.store.SaveSnapshot(resp.Snapshot)
		if err == nil {
			s.logger.Info("structure snapshot saved", "id", resp.SnapshotID, "facility", req.FacilityURN)
		}
	}
	s.catalogResult(w, r, "build_structure", start, resp, err)
}

// handleStreamHosts godoc
//
//	@Summary		Resolve stream hosts
//	@Description	Resolve the host element of each stream in a model
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StreamsRequest	true	"Request body"
//	@Success		200	{array}	structure.HostedStream
//	@Failure		400	{object}	APIResponse
//	@Router			/streams/hosts [post]
//	@Security		ApiKeyAuth
func (s *Server) handleStreamHosts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req StreamsRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ModelID == "" {
		sendError(w, "model_id is required", http.StatusBadRequest)
		return
	}

	elements, err := s.store.ListElements(req.ModelID)
	if err != nil {
		s.catalogResult(w, r, "stream_hosts", start, nil, err)
		return
	}
	var streams []structure.Element
	for _, e := range elements {
		if e.Flags == keys.ElementFlagsStream {
			streams = append(streams, e)
		}
	}

	hosted, err := structure.ResolveHosts(r.Context(), s.store, streams)
	if hosted == nil {
		hosted = []structure.HostedStream{}
	}
	s.catalogResult(w, r, "stream_hosts", start, hosted, err)
}

// handleListSnapshots godoc
//
//	@Summary		List snapshots
//	@Description	List saved structure snapshots, oldest first
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}	catalog.SnapshotInfo
//	@Router			/snapshots [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	infos, err := s.store.ListSnapshots()
	s.catalogResult(w, r, "list_snapshots", start, infos, err)
}

// handleGetSnapshot godoc
//
//	@Summary		Get a snapshot
//	@Description	Get a saved structure snapshot by id
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Id"
//	@Success		200	{object}	structure.Snapshot
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/snapshots/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := s.store.LoadSnapshot(chi.URLParam(r, "id"))
	s.catalogResult(w, r, "get_snapshot", start, snap, err)
}
