package main

import (
	"context"

	"github.com/classhub/backend/core/user"
)

// addTeacher registers a new TEACHER account. Registration rules apply: the
// email must be an unused @gmail.com address.
func (cli *commandLine) addTeacher(email, first, last, pwd string) error {
	_, err := cli.usrSvc.Register(context.Background(), user.NewUser{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  pwd,
		Role:      string(user.RoleTeacher),
	})
	return err
}
