// Sensitive Field Gate - HTTP Handlers
// Copyright (c) 2024 Sensitive Field Gate
// Licensed under the MIT License. See LICENSE file for details.

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"sensitive-field-gate/internal/core/domain"
)

// PreOperationRequest is the host's RetrieveMultiple pre-operation context
type PreOperationRequest struct {
	MessageName       string `json:"message_name"`
	PrimaryEntityName string `json:"primary_entity_name"`
	InitiatingUserID  string `json:"initiating_user_id"`
	InputParameters   struct {
		Query *domain.QueryEnvelope `json:"Query,omitempty"`
	} `json:"input_parameters"`
}

// PreOperationResponse carries the query the host must execute
type PreOperationResponse struct {
	Applied           bool                  `json:"applied"`
	Rewritten         bool                  `json:"rewritten"`
	RemovedConditions int                   `json:"removed_conditions"`
	NotificationID    string                `json:"notification_id,omitempty"`
	Query             *domain.QueryEnvelope `json:"query,omitempty"`
}

// PostOperationRequest is the host's RetrieveMultiple post-operation context
type PostOperationRequest struct {
	MessageName       string `json:"message_name"`
	PrimaryEntityName string `json:"primary_entity_name"`
	InitiatingUserID  string `json:"initiating_user_id"`
	OutputParameters  struct {
		BusinessEntityCollection *domain.EntityCollection `json:"BusinessEntityCollection,omitempty"`
	} `json:"output_parameters"`
}

// PostOperationResponse carries the result set the host may return to the user
type PostOperationResponse struct {
	Applied                  bool                     `json:"applied"`
	Inspected                int                      `json:"inspected"`
	Redacted                 int                      `json:"redacted"`
	BusinessEntityCollection *domain.EntityCollection `json:"BusinessEntityCollection,omitempty"`
}

// RoleRequest represents a role assignment request
type RoleRequest struct {
	Role string `json:"role"`
}

// preOperationHandler runs the query filter rewriter for a retrieval
func (s *GateService) preOperationHandler(w http.ResponseWriter, r *http.Request) {
	var req PreOperationRequest
	if err := decodeRetrievalRequest(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	pc := &domain.PluginContext{
		MessageName:       req.MessageName,
		PrimaryEntityName: req.PrimaryEntityName,
		InitiatingUserID:  domain.Identity(req.InitiatingUserID),
		InputParameters:   map[string]any{},
	}
	if req.InputParameters.Query != nil {
		query, err := req.InputParameters.Query.Query()
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		pc.InputParameters[domain.ParamQuery] = query
	}

	result, err := s.gate.PreOperation(r.Context(), pc)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	response := PreOperationResponse{Applied: result.Applied}
	if result.Rewrite != nil {
		response.Rewritten = result.Rewrite.Rewritten
		response.RemovedConditions = result.Rewrite.RemovedConditions
		response.NotificationID = result.Rewrite.NotificationID
	}
	if query, ok := pc.InputParameters[domain.ParamQuery].(domain.Query); ok {
		envelope, err := domain.NewQueryEnvelope(query)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		response.Query = &envelope
	}

	s.writeJSON(w, http.StatusOK, response)
}

// postOperationHandler runs the result redactor for a retrieval
func (s *GateService) postOperationHandler(w http.ResponseWriter, r *http.Request) {
	var req PostOperationRequest
	if err := decodeRetrievalRequest(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	pc := &domain.PluginContext{
		MessageName:       req.MessageName,
		PrimaryEntityName: req.PrimaryEntityName,
		InitiatingUserID:  domain.Identity(req.InitiatingUserID),
		OutputParameters:  map[string]any{},
	}
	if req.OutputParameters.BusinessEntityCollection != nil {
		pc.OutputParameters[domain.ParamBusinessEntityCollection] = req.OutputParameters.BusinessEntityCollection
	}

	result, err := s.gate.PostOperation(r.Context(), pc)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	response := PostOperationResponse{
		Applied:                  result.Applied,
		BusinessEntityCollection: req.OutputParameters.BusinessEntityCollection,
	}
	if result.Redact != nil {
		response.Inspected = result.Redact.Inspected
		response.Redacted = result.Redact.Redacted
	}
	s.writeJSON(w, http.StatusOK, response)
}

// addUserRoleHandler handles adding roles to users
func (s *GateService) addUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var request RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if request.Role == "" {
		s.writeError(w, http.StatusBadRequest, "role is required")
		return
	}

	added, err := s.roles.AddRoleForUser(r.Context(), userID, request.Role)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to add role", "user_id", userID, "role", request.Role, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to add role")
		return
	}

	response := map[string]interface{}{
		"added": added,
		"user":  userID,
		"role":  request.Role,
	}
	if !added {
		response["message"] = "User already has this role"
		s.writeJSON(w, http.StatusConflict, response)
		return
	}
	response["message"] = "Role added successfully"
	s.writeJSON(w, http.StatusCreated, response)
}

// getUserRolesHandler lists the roles of a user
func (s *GateService) getUserRolesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	roles, err := s.roles.GetRolesForUser(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to get roles", "user_id", userID, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "Failed to get roles")
		return
	}
	if roles == nil {
		roles = []string{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  userID,
		"roles": roles,
	})
}

// deleteUserRoleHandler removes a role from a user
func (s *GateService) deleteUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	role := vars["role"]

	removed, err := s.roles.RemoveRoleForUser(r.Context(), userID, role)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to remove role", "user_id", userID, "role", role, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to remove role")
		return
	}

	response := map[string]interface{}{
		"removed": removed,
		"user":    userID,
		"role":    role,
	}
	if !removed {
		response["message"] = "User does not have this role"
		s.writeJSON(w, http.StatusNotFound, response)
		return
	}
	response["message"] = "Role removed successfully"
	s.writeJSON(w, http.StatusOK, response)
}

// getUserNotificationsHandler lists the stored notifications of a user
func (s *GateService) getUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := domain.Identity(mux.Vars(r)["userId"])

	notifications, err := s.notifications.ListForRecipient(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list notifications", "user_id", userID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":          userID,
		"notifications": notifications,
	})
}

// healthHandler provides a health check endpoint
func (s *GateService) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "healthy",
		"service":             "sensitive-field-gate",
		"role_store":          s.roleStore,
		"notifier":            s.notifierName,
		"protected_role":      s.policy.RoleName,
		"protected_entity":    s.policy.EntityName,
		"protected_attribute": s.policy.ProtectedAttribute,
	})
}

// writeDomainError maps gate errors to HTTP statuses. Every failure blocks the retrieval.
func (s *GateService) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEntitlementCheck):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrMalformedQuery):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUnsupportedQuery), errors.Is(err, domain.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeRetrievalRequest keeps numbers in condition values and record attributes
// as json.Number so they are written back exactly as received.
func decodeRetrievalRequest(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *GateService) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *GateService) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "status", status, "error", err)
	}
}
