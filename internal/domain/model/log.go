package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types written by the planning endpoints and catalog handlers.
const (
	ActionPlanSingle    = "plan_single"
	ActionPlanAllocate  = "plan_allocate"
	ActionPlanMulti     = "plan_multi"
	ActionPlanBatch     = "plan_batch"
	ActionPlanProject   = "plan_project"
	ActionPlanExport    = "plan_export"
	ActionCatalogChange = "catalog_change"
	ActionHTTPRequest   = "http_request"
)

// LogEntry is one request or audit record.
// Context specific data goes into Fields.
type LogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Level      string             `bson:"level" json:"level"`
	Message    string             `bson:"message" json:"message"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string             `bson:"method,omitempty" json:"method,omitempty"`
	Path       string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	// Subject is the token subject or API key label of the caller
	Subject    string                 `bson:"subject,omitempty" json:"subject,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// IsAudit reports whether the entry records a planning or catalog action
// rather than plain request traffic.
func (e *LogEntry) IsAudit() bool {
	return e.ActionType != "" && e.ActionType != ActionHTTPRequest
}

// PlanFields returns the audit fields describing an allocation result.
func PlanFields(result PlanResult) map[string]interface{} {
	fields := map[string]interface{}{
		"plan_id":   result.PlanID,
		"mode":      string(result.Mode),
		"requested": result.Requested,
		"shipped":   result.Shipped,
		"shipments": len(result.Shipments),
		"leftover":  result.Leftover,
	}
	if len(result.Groups) > 0 {
		containers := make([]int, 0, len(result.Groups))
		for _, g := range result.Groups {
			if !slices.Contains(containers, g.ContainerID) {
				containers = append(containers, g.ContainerID)
			}
		}
		fields["container_ids"] = containers
	}
	return fields
}

// LogQueryOptions filters log queries.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	Method     string
	Path       string
	ActionType string
	Subject    string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
