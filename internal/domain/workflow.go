package domain

// Workflow guarda la configuración serializada que arma el front-end.
type Workflow struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ConfigJSON string `json:"config_json"`
}
