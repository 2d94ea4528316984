package main

import (
	"github.com/dartalib/backend/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrSvc.GetByUsernameOrEmail(uname)
	if err != nil {
		return err
	}
	uu := user.UpdateUser{
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := uu.Validate(usr, cli.usrSvc); err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(usr.ID, uu)
	return err
}
