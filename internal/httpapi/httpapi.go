// Package httpapi implements the wire contract for the assignment engine's
// single HTTP endpoint: request/response JSON shapes (camelCase on the
// wire, snake_case internally), schema validation, and the error-to-status
// mapping described by the error handling design.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"facilityassign/internal/assignment"
	"facilityassign/internal/costmatrix"
	"facilityassign/internal/geo"
	"facilityassign/internal/model"
	"facilityassign/pkg/apperror"
	"facilityassign/pkg/config"
	"facilityassign/pkg/logger"
)

// clientRequest is the wire shape of a single client.
type clientRequest struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Demand float64 `json:"demand"`
}

// facilityRequest is the wire shape of a single facility.
type facilityRequest struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Lat                 float64         `json:"lat"`
	Lng                 float64         `json:"lng"`
	MinDemand           int             `json:"minDemand"`
	MaxDemand           int             `json:"maxDemand"`
	ExclusiveServiceArea json.RawMessage `json:"exclusiveServiceArea"`
}

// solveRequest is the wire shape of POST /v1/solve-assignment.
type solveRequest struct {
	TotalDemand int               `json:"totalDemand"`
	Clients     []clientRequest   `json:"clients"`
	Facilities  []facilityRequest `json:"facilities"`
	Algorithm   int               `json:"algorithm"`
	Objective   int               `json:"objective"`
}

type assignedFacilityResponse struct {
	Facility                        string          `json:"facility"`
	AssignedClients                 []string        `json:"assignedClients"`
	ExpectedDemand                  float64         `json:"expectedDemand"`
	ServiceArea                     json.RawMessage `json:"serviceArea"`
	ExpectedOptimalTspRouteDistance float64         `json:"expectedOptimalTspRouteDistance"`
}

type solveResponse struct {
	ObjectiveValue     float64                     `json:"objectiveValue"`
	AssignedFacilities []assignedFacilityResponse `json:"assignedFacilities"`
	SolutionStatus     string                      `json:"solutionStatus"`
	Message            string                      `json:"message,omitempty"`
}

type fieldError struct {
	Error     string `json:"error"`
	PathError string `json:"pathError"`
	Input     any    `json:"input"`
}

type validationErrorResponse struct {
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields"`
}

type infeasibleResponse struct {
	Detail string `json:"detail"`
}

// Handler serves POST /v1/solve-assignment.
type Handler struct {
	cfg config.Config
	rt  costmatrix.RoutingTable
}

// NewHandler builds a Handler. rt may be nil; Solve only dereferences it
// when a request's objective needs road distance or duration.
func NewHandler(cfg config.Config, rt costmatrix.RoutingTable) *Handler {
	return &Handler{cfg: cfg, rt: rt}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	start := time.Now()
	defer func() {
		logger.Info("solve-assignment request handled", "request_id", requestID, "duration_ms", time.Since(start).Milliseconds())
	}()

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "request body is not valid JSON", nil)
		return
	}

	parsed, fieldErrs := parseRequest(req)
	if len(fieldErrs) > 0 {
		writeValidationError(w, "request failed schema validation", fieldErrs)
		return
	}

	solution, err := assignment.Solve(r.Context(), parsed, h.cfg, h.rt)
	if err != nil {
		writeAppError(w, requestID, err)
		return
	}

	if solution.Status == model.StatusInfeasible {
		writeJSON(w, http.StatusInternalServerError, infeasibleResponse{Detail: solution.Message})
		return
	}

	writeJSON(w, http.StatusOK, toResponse(solution))
}

func parseRequest(req solveRequest) (assignment.Request, []fieldError) {
	var fieldErrs []fieldError

	if len(req.Clients) == 0 {
		fieldErrs = append(fieldErrs, fieldError{Error: "clients must be non-empty", PathError: "clients", Input: req.Clients})
	}
	if len(req.Facilities) == 0 {
		fieldErrs = append(fieldErrs, fieldError{Error: "facilities must be non-empty", PathError: "facilities", Input: req.Facilities})
	}

	totalDemand := float64(req.TotalDemand)
	if totalDemand == 0 {
		totalDemand = 1.0
	}
	if totalDemand < 0 {
		fieldErrs = append(fieldErrs, fieldError{Error: "totalDemand must be positive", PathError: "totalDemand", Input: req.TotalDemand})
	}

	algorithm := model.AlgorithmFlow
	switch req.Algorithm {
	case 0, 1:
		algorithm = model.AlgorithmFlow
	case 2:
		algorithm = model.AlgorithmMILP
	default:
		fieldErrs = append(fieldErrs, fieldError{Error: "unknown algorithm", PathError: "algorithm", Input: req.Algorithm})
	}

	objective := model.ObjectiveMinProximity
	switch req.Objective {
	case 0, 1:
		objective = model.ObjectiveMinProximity
	case 2:
		objective = model.ObjectiveMinTravelDistance
	case 3:
		objective = model.ObjectiveMinTravelDuration
	default:
		fieldErrs = append(fieldErrs, fieldError{Error: "unknown objective", PathError: "objective", Input: req.Objective})
	}

	clients := make([]model.Client, len(req.Clients))
	for i, c := range req.Clients {
		demand := c.Demand
		if demand == 0 {
			demand = 1.0
		}
		if demand <= 0 {
			fieldErrs = append(fieldErrs, fieldError{Error: "demand must be positive", PathError: fmt.Sprintf("clients[%d].demand", i), Input: c.Demand})
		}
		clients[i] = model.Client{ID: c.ID, Lat: c.Lat, Lng: c.Lng, Demand: demand}
	}

	facilities := make([]model.Facility, len(req.Facilities))
	for i, f := range req.Facilities {
		var area orb.MultiPolygon
		if len(f.ExclusiveServiceArea) > 0 {
			parsedArea, err := geo.ParseExclusiveArea(f.ExclusiveServiceArea)
			if err != nil {
				fieldErrs = append(fieldErrs, fieldError{Error: err.Error(), PathError: fmt.Sprintf("facilities[%d].exclusiveServiceArea", i), Input: string(f.ExclusiveServiceArea)})
			} else {
				area = parsedArea
			}
		}
		facilities[i] = model.Facility{
			ID: f.ID, Name: f.Name, Lat: f.Lat, Lng: f.Lng,
			MinDemand: f.MinDemand, MaxDemand: f.MaxDemand,
			ExclusiveArea: area,
		}
	}

	return assignment.Request{
		Clients:     clients,
		Facilities:  facilities,
		Objective:   objective,
		Algorithm:   algorithm,
		TotalDemand: totalDemand,
	}, fieldErrs
}

func toResponse(solution model.Solution) solveResponse {
	facilities := make([]assignedFacilityResponse, len(solution.AssignedFacilities))
	for i, af := range solution.AssignedFacilities {
		clientIDs := make([]string, len(af.AssignedClients))
		for j, c := range af.AssignedClients {
			clientIDs[j] = c.ID
		}

		areaJSON := geo.MultiPolygonToGeoJSON(af.ServiceArea)

		facilities[i] = assignedFacilityResponse{
			Facility:                        af.Facility.ID,
			AssignedClients:                 clientIDs,
			ExpectedDemand:                  af.ExpectedDemand,
			ServiceArea:                     areaJSON,
			ExpectedOptimalTspRouteDistance: af.TSPEstimate,
		}
	}

	return solveResponse{
		ObjectiveValue:     solution.ObjectiveValue,
		AssignedFacilities: facilities,
		SolutionStatus:     solution.Status.String(),
		Message:            solution.Message,
	}
}

func writeAppError(w http.ResponseWriter, requestID string, err error) {
	code := apperror.Code(err)
	switch code {
	case apperror.CodeInvalidRequest, apperror.CodeEmptyClients, apperror.CodeEmptyFacilities,
		apperror.CodeInvalidDemand, apperror.CodeInvalidGeometry, apperror.CodeDegeneratePolygon,
		apperror.CodeInvalidAlgorithm, apperror.CodeInvalidObjective, apperror.CodeZeroScaledDemand:
		writeValidationError(w, err.Error(), nil)
	case apperror.CodeExclusiveOverlap, apperror.CodeAllClientsDropped:
		writeJSON(w, http.StatusInternalServerError, infeasibleResponse{Detail: err.Error()})
	default:
		logger.Error("assignment solve failed", "request_id", requestID, "error", err)
		writeJSON(w, http.StatusInternalServerError, infeasibleResponse{Detail: err.Error()})
	}
}

func writeValidationError(w http.ResponseWriter, message string, fields []fieldError) {
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{Message: message, Fields: fields})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
