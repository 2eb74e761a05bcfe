package httpadapter

import (
	"fmt"
	"net/http"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
	"supplyrisk/internal/services/catalog"
)

func (s *Server) getHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	var (
		q              string
		page, pageSize *int
	)
	err := queryParam(r, "q", &q)
	if err == nil {
		err = queryParam(r, "page", &page)
	}
	if err == nil {
		err = queryParam(r, "pageSize", &pageSize)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	query := ports.SupplierQuery{Search: q}
	if page != nil {
		query.Page = *page
	}
	if pageSize != nil {
		query.PageSize = *pageSize
	}
	res, err := s.suppliers.ListSuppliers(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := supplierPageResponse{
		Items:      make([]supplierResponse, 0, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
	for _, sup := range res.Items {
		out.Items = append(out.Items, toSupplier(sup, role))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) postSupplier(w http.ResponseWriter, r *http.Request) {
	var body supplierRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sup, err := s.suppliers.AddSupplier(r.Context(), body.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/suppliers/"+sup.ID)
	writeJSON(w, http.StatusCreated, toSupplier(sup, role))
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "supplierId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sup, ok, err := s.suppliers.GetSupplier(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, notFound("supplier", id))
		return
	}
	writeJSON(w, http.StatusOK, toSupplier(sup, role))
}

func (s *Server) patchSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "supplierId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body supplierPatchRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sup, err := s.suppliers.UpdateSupplier(r.Context(), id, body.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplier(sup, role))
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "supplierId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.suppliers.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse(sum))
}

func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "supplierId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var refresh *bool
	if err := queryParam(r, "refresh", &refresh); err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := s.ratings.Get(r.Context(), id, refresh != nil && *refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRating(rating))
}

func (s *Server) postService(w http.ResponseWriter, r *http.Request) {
	supplierID, err := pathParam(r, "supplierId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body serviceRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if body.AssetClassificationID != "" {
		c, ok := s.catalog.Get(r.Context(), body.AssetClassificationID)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: unknown asset classification %q", domain.ErrInvalidInput, body.AssetClassificationID))
			return
		}
		prefilled := catalog.Prefill(c, *body.Scores)
		body.Scores = &prefilled
	}
	svc, err := s.suppliers.AddService(r.Context(), supplierID, body.input(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/suppliers/%s/services/%s", supplierID, svc.ID))
	writeJSON(w, http.StatusCreated, toService(svc, role))
}

// servicePath binds both path parameters of a service route.
func servicePath(r *http.Request) (supplierID, serviceID string, err error) {
	if supplierID, err = pathParam(r, "supplierId"); err != nil {
		return "", "", err
	}
	if serviceID, err = pathParam(r, "serviceId"); err != nil {
		return "", "", err
	}
	return supplierID, serviceID, nil
}

func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	supplierID, serviceID, err := servicePath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	svc, ok, err := s.suppliers.GetService(r.Context(), supplierID, serviceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, notFound("service", serviceID))
		return
	}
	writeJSON(w, http.StatusOK, toService(svc, role))
}

func (s *Server) patchService(w http.ResponseWriter, r *http.Request) {
	supplierID, serviceID, err := servicePath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body servicePatchRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	svc, err := s.suppliers.UpdateService(r.Context(), supplierID, serviceID, body.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toService(svc, role))
}

func (s *Server) postTransition(w http.ResponseWriter, r *http.Request) {
	supplierID, serviceID, err := servicePath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body transitionRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := actorRole(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	svc, err := s.suppliers.Transition(r.Context(), supplierID, serviceID, body.Action, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toService(svc, role))
}

// postAssess previews the assessment of a score set without storing anything.
func (s *Server) postAssess(w http.ResponseWriter, r *http.Request) {
	var body domain.ScoreSet
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := domain.DeriveRisk(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessment(a))
}

func (s *Server) listClassifications(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := queryParam(r, "q", &q); err != nil {
		writeError(w, r, err)
		return
	}
	found := s.catalog.Search(r.Context(), q)
	out := make([]classificationResponse, 0, len(found))
	for _, c := range found {
		out = append(out, toClassification(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getClassification(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "classificationId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, ok := s.catalog.Get(r.Context(), id)
	if !ok {
		writeError(w, r, notFound("asset classification", id))
		return
	}
	writeJSON(w, http.StatusOK, toClassification(c))
}
