// roomctl performs one-shot provisioning operations against the platform
// without the daemon:
//
//	roomctl -kind=group create "Team One"
//	roomctl rename <roomID> "Team Two"
//	roomctl archive <roomID>
//	roomctl unique "Team One"
//	roomctl user-create a.b@x.co "A B" <password>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hivelock/chatadmin/rooms"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/translit"
	"github.com/hivelock/chatadmin/transport"
	"github.com/hivelock/chatadmin/users"
)

func main() {
	kind := flag.String("kind", "channel", "room kind: channel or group")
	readOnly := flag.Bool("read-only", false, "create the room read-only")
	flag.Parse()

	if flag.NArg() < 1 {
		logrus.Fatal("usage: roomctl [flags] <create|rename|archive|unarchive|unique|user-create> args...")
	}

	godotenv.Load()

	base := os.Getenv("CHAT_BASE_URL")
	if base == "" {
		logrus.Fatal("CHAT_BASE_URL is required")
	}

	tr := transport.New(base)
	ctx := context.Background()

	sess, err := session.New(ctx, tr, os.Getenv("CHAT_ADMIN_USERNAME"), os.Getenv("CHAT_ADMIN_PASSWORD"))
	if err != nil {
		logrus.Fatal(err)
	}

	tl := translit.Default()
	admin := rooms.NewChannelAdmin(tr, sess, tl)
	if *kind == "group" {
		admin = rooms.NewGroupAdmin(tr, sess, tl)
	}

	switch flag.Arg(0) {
	case "create":
		room, err := admin.Create(ctx, flag.Arg(1), nil, *readOnly)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Printf("%s %s\n", room.ID, room.Name)
	case "rename":
		if err := admin.Rename(ctx, flag.Arg(1), flag.Arg(2)); err != nil {
			logrus.Fatal(err)
		}
	case "archive":
		if err := admin.Archive(ctx, flag.Arg(1)); err != nil {
			logrus.Fatal(err)
		}
	case "unarchive":
		if err := admin.Unarchive(ctx, flag.Arg(1)); err != nil {
			logrus.Fatal(err)
		}
	case "unique":
		checker := rooms.NewNameChecker(tr, sess)
		checker.Strict = os.Getenv("NAME_CHECK_STRICT") == "true"
		unique, err := checker.IsUnique(ctx, flag.Arg(1))
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Println(unique)
	case "user-create":
		userAdmin := users.NewAdmin(tr, sess, tl)
		id, err := userAdmin.Create(ctx, flag.Arg(1), flag.Arg(2), flag.Arg(3))
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Println(id)
	default:
		logrus.Fatalf("unknown command %q", flag.Arg(0))
	}
}
