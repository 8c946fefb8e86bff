package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Citizen is a registered reporter. Points are mutated only by the
// gamification accumulator and never drop below zero.
type Citizen struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Address      *string            `bson:"address,omitempty" json:"address,omitempty"`
	Constituency string             `bson:"constituency" json:"constituency"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Points       int64              `bson:"points" json:"points"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *Citizen) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *Citizen) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Official triages issues for one department within one constituency
type Official struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Department   Department         `bson:"department" json:"department"`
	Constituency string             `bson:"constituency" json:"constituency"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (o *Official) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(candidate))
	return err == nil
}
