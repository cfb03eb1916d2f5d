package domain

// Action is what the UI layer should do after a segment is activated.
// The concrete types are OpenThread, NavigateToEntity and NoAction.
type Action interface {
	isAction()
}

// OpenThread asks the UI to show an annotation's comment thread.
type OpenThread struct {
	AnnotationID string
}

// NavigateToEntity asks the UI to navigate to a linked entity.
type NavigateToEntity struct {
	EntityType string
	EntityID   string
}

// NoAction is returned for plain prose.
type NoAction struct{}

func (OpenThread) isAction()       {}
func (NavigateToEntity) isAction() {}
func (NoAction) isAction()         {}
