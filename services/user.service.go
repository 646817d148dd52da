package services

import (
	"github.com/google/uuid"
	"github.com/rcctracs/tracs-auth/connect"
	"github.com/rcctracs/tracs-auth/models"
)

// User contains all the user related services
type User struct {
	Conn *connect.Connector
}

// GetUserWithEmail is a function that is used to get the user with the given email address
func (u *User) GetUserWithEmail(email string) (user *models.User, err error) {
	user = &models.User{}
	err = u.Conn.DB.Where(&models.User{
		Email: email,
	}).First(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserWithID is a function that is used to get the user with the given user ID
func (u *User) GetUserWithID(id uuid.UUID) (user *models.User, err error) {
	user = &models.User{}
	err = u.Conn.DB.Where(&models.User{
		ID: &id,
	}).First(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Create is a function that is used to create a new user in the relational database
func (u *User) Create(user models.User) (
	newUser models.User,
	err error,
) {
	newUser = user
	err = u.Conn.DB.Create(&newUser).Error
	if err != nil {
		return models.User{}, err
	}

	return newUser, nil
}
