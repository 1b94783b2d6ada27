package repository

import (
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// NewStore wires every repository over one database
func NewStore(db *sqlite.DB, logger *zap.Logger) port.Store {
	return port.Store{
		Applicants:    NewApplicantRepository(db.DB, logger),
		Assessments:   NewAssessmentRepository(db.DB, logger),
		Documents:     NewDocumentRepository(db.DB, logger),
		WorkflowState: NewWorkflowStateRepository(db.DB, logger),
		History:       NewHistoryRepository(db.DB, logger),
		Tx:            db,
		Health:        db,
	}
}
