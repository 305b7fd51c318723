package entity

import "time"

// Message mensaje de contacto. Inserción pública; leer, marcar y borrar es de admin.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	IsRead    bool
	RepliedAt *time.Time // nil hasta que un admin responde
	CreatedAt time.Time
}
