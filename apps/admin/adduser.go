package main

import (
	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByUsernameOrEmail(uname)
	if err == user.ErrNotFound && email != "" {
		usr, err = cli.usrSvc.GetByEmail(email)
	}
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{
			Name:            uname,
			Username:        uname,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
		}
		if isAdmin {
			nu.Roles = user.AllRoles
		}
		if err := nu.Validate(cli.usrSvc); err != nil {
			return err
		}
		_, err = cli.usrSvc.Create(nu)
		return err
	}

	active := true
	uu := user.UpdateUser{
		Email:           email,
		IsActive:        &active,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if isAdmin {
		uu.Roles = user.AllRoles
	}
	if err := uu.Validate(usr, cli.usrSvc); err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(usr.ID, uu)
	return err
}
