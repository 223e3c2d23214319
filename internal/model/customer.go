package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the DB entity persisted in the customers table.
// CreatedAt and UserID are create-only: the ORM never writes them on update.
type Customer struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;<-:create" json:"created_at"`
	FirstName    string    `gorm:"column:first_name;size:255;not null" json:"first_name" validate:"required,max=255"`
	LastName     string    `gorm:"column:last_name;size:255;not null" json:"last_name" validate:"required,max=255"`
	Phone        *string   `gorm:"column:phone;size:32" json:"phone" validate:"omitempty,max=32"`
	Mobile       *string   `gorm:"column:mobile;size:32" json:"mobile" validate:"omitempty,max=32"`
	City         string    `gorm:"column:city;size:255;not null" json:"city" validate:"required,max=255"`
	Country      string    `gorm:"column:country;size:255;not null" json:"country" validate:"required,max=255"`
	Email        *string   `gorm:"column:email;size:255" json:"email" validate:"omitempty,email,max=255"`
	Organization *string   `gorm:"column:organization;size:255" json:"organization" validate:"omitempty,max=255"`
	UserID       int64     `gorm:"column:user_id;not null;index;<-:create" json:"user_id" validate:"required,gt=0"`
}

func (Customer) TableName() string { return "customers" }

// BeforeSave runs model validation on every create and update, so a rejected
// record never reaches the database.
func (c *Customer) BeforeSave(_ *gorm.DB) error {
	return Validate(c)
}

// CustomerSummary is the projection served by list and read: id is exposed as uid.
type CustomerSummary struct {
	UID       int64     `gorm:"column:uid" json:"uid"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Mobile    *string   `gorm:"column:mobile" json:"mobile"`
	City      string    `gorm:"column:city" json:"city"`
	UserID    int64     `gorm:"column:user_id" json:"user_id"`
}
