package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/rooms"
	"github.com/hivelock/chatadmin/server"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/store"
	"github.com/hivelock/chatadmin/translit"
	"github.com/hivelock/chatadmin/transport"
	"github.com/hivelock/chatadmin/users"
)

func main() {
	// load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Error("Error loading .env file. If not deploying, consider checking.")
	}

	base := os.Getenv("CHAT_BASE_URL")
	if base == "" {
		logrus.Fatal("CHAT_BASE_URL is required")
	}

	tr := transport.New(base)

	// a rejected login leaves a repairable session; keep the daemon up so
	// an operator can hit /api/session/reauth once the platform recovers
	sess, err := session.New(context.Background(), tr, os.Getenv("CHAT_ADMIN_USERNAME"), os.Getenv("CHAT_ADMIN_PASSWORD"))
	if err != nil {
		logrus.Errorf("starting unauthenticated: %v", err)
	}

	tl := translit.Default()
	channels := rooms.NewChannelAdmin(tr, sess, tl)
	groups := rooms.NewGroupAdmin(tr, sess, tl)
	userAdmin := users.NewAdmin(tr, sess, tl)

	names := rooms.NewNameChecker(tr, sess)
	names.Strict = os.Getenv("NAME_CHECK_STRICT") == "true"

	var audit chatadmin.Auditor
	if dbConn := os.Getenv("DATABASE_URL"); dbConn != "" {
		db, err := store.New(dbConn)
		if err != nil {
			logrus.Fatal(err)
		}
		defer db.Close()
		audit = db
	} else {
		logrus.Info("DATABASE_URL not set, provisioning audit disabled")
	}

	operator := server.Operator{
		Email:        os.Getenv("FACADE_ADMIN_EMAIL"),
		PasswordHash: []byte(os.Getenv("FACADE_ADMIN_PASSWORD_HASH")),
	}
	if operator.Email == "" || len(operator.PasswordHash) == 0 {
		logrus.Fatal("FACADE_ADMIN_EMAIL and FACADE_ADMIN_PASSWORD_HASH are required")
	}

	secret := os.Getenv("FACADE_SECRET")
	if secret == "" {
		logrus.Fatal("FACADE_SECRET is required")
	}

	srv := server.NewServer(channels, groups, userAdmin, names, sess, audit, []byte(secret), operator)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.Infof("chatadmind listening on :%s", port)
	logrus.Fatal(http.ListenAndServe(":"+port, srv.Serve()))
}
