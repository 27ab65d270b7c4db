package main

import (
	"log"
	"os"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/cascade"
	"github.com/classhub/backend/core/user"
	emailsvc "github.com/classhub/backend/services/email"
	"github.com/classhub/backend/storage/database"
	"github.com/classhub/backend/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	usrRepo := sqlxrepos.NewUserRepository(db)
	grpRepo := sqlxrepos.NewGroupRepository(db)
	annRepo := sqlxrepos.NewAnnouncementRepository(db)
	cmtRepo := sqlxrepos.NewCommentRepository(db)
	cascadeEngine := cascade.NewEngine(db, usrRepo, grpRepo, annRepo, cmtRepo)

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(usrRepo, cascadeEngine, emailsvc.NewConsoleService(conf), conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
