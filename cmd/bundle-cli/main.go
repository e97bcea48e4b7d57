package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"bundlenet/pkg/log"
)

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultRetryMax  = 3
	retryWaitMin     = 500 * time.Millisecond
	retryWaitMax     = 5 * time.Second
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bundle-cli [flags] <command> [args]

Commands:
  register <handle>                     claim a handle for --sender
  genkey                                generate a viewing key for --sender
  create <message> <contents> <cost>    post a priced bundle
  seal <bundle-id>                      stop new unlocks of a bundle
  unlock <bundle-id> <funds>            pay to unlock a bundle
  get <bundle-id>                       public view of a bundle
  list <handle>                         bundles published under a handle
  follow <handle>                       follow a handle
  following <viewing-key>               handles --sender follows
  profile <handle>                      public profile behind a handle
`)
	flag.PrintDefaults()
}

func main() {
	serverURL := flag.String("server", defaultServerURL, "bundlenet server URL")
	sender := flag.String("sender", "", "Sender identity for mutations")
	retryMax := flag.Int("retries", defaultRetryMax, "Max request retries")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	c := newClient(*serverURL, *sender, *retryMax)

	var err error
	switch cmd := args[0]; cmd {
	case "register":
		err = c.register(arg(args, 1))
	case "genkey":
		err = c.generateKey()
	case "create":
		err = c.create(arg(args, 1), arg(args, 2), argUint(args, 3))
	case "seal":
		err = c.seal(argUint(args, 1))
	case "unlock":
		err = c.unlock(argUint(args, 1), argUint(args, 2))
	case "get":
		err = c.getBundle(argUint(args, 1))
	case "list":
		err = c.listBundles(arg(args, 1))
	case "follow":
		err = c.follow(arg(args, 1))
	case "following":
		err = c.listFollowing(arg(args, 1))
	case "profile":
		err = c.getProfile(arg(args, 1))
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func arg(args []string, i int) string {
	if i >= len(args) {
		usage()
		os.Exit(2)
	}
	return args[i]
}

func argUint(args []string, i int) uint64 {
	n, err := strconv.ParseUint(arg(args, i), 10, 64)
	if err != nil {
		log.Fatal().Err(err).Str("arg", args[i]).Msg("Expected a number")
	}
	return n
}
