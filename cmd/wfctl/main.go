package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const usage = `usage:
  wfctl actor create --name <name> --role <LEGAL|VIEWER|ADMIN|MEMBER>
  wfctl contract create --actor <actor_id> [--title <title>]
  wfctl contract get --id <contract_id>
  wfctl contract submit --id <contract_id> --actor <actor_id> --reviewer <actor_id> --viewer <actor_id>
  wfctl contract approve --id <contract_id> --actor <actor_id>
  wfctl contract reject-review --id <contract_id> --actor <actor_id> --reason <text>
  wfctl contract sign --id <contract_id> --actor <actor_id>
  wfctl contract reject-sign --id <contract_id> --actor <actor_id> --reason <text>
  wfctl contract reset --id <contract_id> --actor <actor_id>
  wfctl contract audit --id <contract_id>

environment:
  WORKFLOW_BASE_URL   (default http://localhost:8082/workflow)
  DIRECTORY_BASE_URL  (default http://localhost:8081/directory)`

func main() {
	if len(os.Args) < 3 {
		fail(usage)
	}
	switch os.Args[1] {
	case "actor":
		runActor(os.Args[2], os.Args[3:])
	case "contract":
		runContract(os.Args[2], os.Args[3:])
	default:
		fail(usage)
	}
}

func workflowBase() string {
	if v := os.Getenv("WORKFLOW_BASE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://localhost:8082/workflow"
}

func directoryBase() string {
	if v := os.Getenv("DIRECTORY_BASE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://localhost:8081/directory"
}

func runActor(cmd string, args []string) {
	switch cmd {
	case "create":
		fs := flag.NewFlagSet("actor create", flag.ExitOnError)
		name := fs.String("name", "", "actor display name")
		role := fs.String("role", "", "directory role")
		_ = fs.Parse(args)
		if *name == "" || *role == "" {
			fail("both --name and --role are required")
		}
		do(http.MethodPost, directoryBase()+"/actors", map[string]any{"name": *name, "role": *role})
	default:
		fail(usage)
	}
}

func runContract(cmd string, args []string) {
	fs := flag.NewFlagSet("contract "+cmd, flag.ExitOnError)
	id := fs.String("id", "", "contract id")
	actor := fs.String("actor", "", "acting identity")
	reviewer := fs.String("reviewer", "", "legal reviewer id")
	viewer := fs.String("viewer", "", "viewer id")
	reason := fs.String("reason", "", "rejection reason")
	title := fs.String("title", "", "contract title")
	_ = fs.Parse(args)

	actorCtx := map[string]any{"actor_id": *actor}
	switch cmd {
	case "create":
		requireFlags(reqFlag{"--actor", *actor})
		do(http.MethodPost, workflowBase()+"/contracts", map[string]any{"actor_context": actorCtx, "title": *title})
	case "get":
		requireFlags(reqFlag{"--id", *id})
		do(http.MethodGet, workflowBase()+"/contracts/"+*id, nil)
	case "submit":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor}, reqFlag{"--reviewer", *reviewer}, reqFlag{"--viewer", *viewer})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":submitForReview",
			map[string]any{"actor_context": actorCtx, "legal_reviewer_id": *reviewer, "viewer_id": *viewer})
	case "approve":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":approve", map[string]any{"actor_context": actorCtx})
	case "reject-review":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor}, reqFlag{"--reason", *reason})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":rejectByReviewer",
			map[string]any{"actor_context": actorCtx, "reason": *reason})
	case "sign":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":sign", map[string]any{"actor_context": actorCtx})
	case "reject-sign":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor}, reqFlag{"--reason", *reason})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":rejectBySigner",
			map[string]any{"actor_context": actorCtx, "reason": *reason})
	case "reset":
		requireFlags(reqFlag{"--id", *id}, reqFlag{"--actor", *actor})
		do(http.MethodPost, workflowBase()+"/contracts/"+*id+":resetToDraft", map[string]any{"actor_context": actorCtx})
	case "audit":
		requireFlags(reqFlag{"--id", *id})
		do(http.MethodGet, workflowBase()+"/contracts/"+*id+"/audit", nil)
	default:
		fail(usage)
	}
}

type reqFlag struct {
	name  string
	value string
}

// requireFlags reports the first missing flag in declaration order.
func requireFlags(flags ...reqFlag) {
	for _, f := range flags {
		if f.value == "" {
			fail(f.name + " is required")
		}
	}
}

func do(method, url string, body map[string]any) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		fail(err.Error())
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fail(err.Error())
	}
	defer resp.Body.Close()

	var pretty bytes.Buffer
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Write(raw)
	}
	fmt.Println(pretty.String())
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
