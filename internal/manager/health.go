package manager

import "chatd/pkg/types"

// Health checks that the model file exists. It never loads the model.
func (m *Manager) Health() (types.HealthResponse, error) {
	p, err := m.resolveModelPath()
	if err != nil {
		return types.HealthResponse{}, err
	}
	return types.HealthResponse{Status: "healthy", ModelPath: p}, nil
}
