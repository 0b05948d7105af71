package model

import "time"

// Field represents a rentable sports field ("cancha") and its owner account.
type Field struct {
	ID         int64    `gorm:"primaryKey" json:"id"`
	Name       string   `gorm:"column:nombre;size:128;not null" json:"nombre"`
	Logo       string   `gorm:"column:logo;size:512" json:"logo"`
	Cover      string   `gorm:"column:portada;size:512" json:"portada"`
	Address    string   `gorm:"column:direccion;size:256" json:"direccion"`
	Locality   string   `gorm:"column:localidad;size:128" json:"localidad"`
	Surface    string   `gorm:"column:tipo;size:64" json:"tipo"`
	Capacity   int      `gorm:"column:capacidad" json:"capacidad"`
	Rate       float64  `gorm:"column:precio" json:"precio"`
	SecondRate *float64 `gorm:"column:precio_2" json:"precio_2"`
	Phone      string   `gorm:"column:telefono;size:32" json:"telefono"`

	// Owner account
	Username       string `gorm:"column:usuario;size:64;uniqueIndex;not null" json:"usuario"`
	PasswordHash   string `gorm:"column:contrasena;size:128;not null" json:"-"`
	OwnerFirstName string `gorm:"column:propietario_nombre;size:128" json:"propietario_nombre"`
	OwnerLastName  string `gorm:"column:propietario_apellido;size:128" json:"propietario_apellido"`
	Email          string `gorm:"column:email;size:256" json:"email"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName keeps the table name used by the existing deployments.
func (Field) TableName() string { return "canchas" }
