// Command persona is a CLI client for the persona-keeper service.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/and161185/persona-keeper/internal/api/personav1"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "persona-keeper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "persona-keeper")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- grpc dial ----

type bearerCreds struct {
	token  string
	secure bool
}

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}
func (b bearerCreds) RequireTransportSecurity() bool { return b.secure }

type globals struct {
	addr      string
	caPath    string
	insecure  bool
	plaintext bool
}

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

// dialer opens a client; tests replace it.
var dialer = dial

func dial(g globals, bearer string) (pb.PersonaServiceClient, io.Closer, error) {
	creds := insecure.NewCredentials()
	if !g.plaintext {
		var err error
		if creds, err = loadTLS(g.caPath, g.insecure); err != nil {
			return nil, nil, err
		}
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if bearer != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: bearer, secure: !g.plaintext}))
	}
	cc, err := grpc.NewClient(g.addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return pb.NewPersonaServiceClient(cc), cc, nil
}

func dialAuthed(g globals) (pb.PersonaServiceClient, io.Closer, error) {
	token, err := loadToken()
	if err != nil {
		return nil, nil, err
	}
	return dialer(g, token)
}

// ---- utils ----

func readAll(stdin io.Reader, p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(p)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func tsString(ts *timestamppb.Timestamp) string {
	if ts == nil {
		return ""
	}
	return ts.AsTime().UTC().Format(time.RFC3339)
}

// moduleFlags collects repeated -module TYPE=TEXT values. TEXT starting
// with @ names a file to read the content from.
type moduleFlags []*pb.ModuleInput

func (m *moduleFlags) String() string { return fmt.Sprintf("%d modules", len(*m)) }

func (m *moduleFlags) Set(v string) error {
	typ, content, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(typ) == "" {
		return fmt.Errorf("module %q: want TYPE=TEXT or TYPE=@FILE", v)
	}
	if strings.HasPrefix(content, "@") {
		b, err := os.ReadFile(content[1:])
		if err != nil {
			return err
		}
		content = string(b)
	}
	*m = append(*m, &pb.ModuleInput{Type: strings.TrimSpace(typ), Content: content})
	return nil
}

const usageText = `persona CLI
Usage:
  persona -addr HOST:PORT [-cacert file | -insecure | -plaintext] <cmd> [args]

Commands:
  version
  register     -e <email> -p <password>
  login        -e <email> -p <password>           (saves token)
  key-add      -service <openai|claude|gemini|deepseek> -file <path|->
  keys
  key-rm       -id <uuid>
  char-create  -name <name> [-desc <text>] [-module TYPE=TEXT|TYPE=@FILE ...]
  chars
  char-show    -id <uuid>
`

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

// run dispatches one subcommand. args excludes the program name.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var g globals
	gfs := flag.NewFlagSet("persona", flag.ContinueOnError)
	gfs.StringVar(&g.addr, "addr", "localhost:8443", "server addr")
	gfs.StringVar(&g.caPath, "cacert", "", "CA cert (PEM)")
	gfs.BoolVar(&g.insecure, "insecure", false, "skip cert verify (dev)")
	gfs.BoolVar(&g.plaintext, "plaintext", false, "no TLS at all (dev server started with -insecure)")
	if err := gfs.Parse(args); err != nil {
		return errUsage
	}
	if gfs.NArg() < 1 {
		return errUsage
	}
	cmd, rest := gfs.Arg(0), gfs.Args()[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "persona %s (%s)\n", version, buildDate)
		return nil

	case "register", "login":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *e == "" || *p == "" {
			return errors.New("need -e and -p")
		}
		cli, cc, err := dialer(g, "")
		if err != nil {
			return err
		}
		defer cc.Close()

		if cmd == "register" {
			resp, err := cli.Register(ctx, &pb.RegisterRequest{Email: *e, Password: *p})
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, resp.GetUserID())
			return nil
		}
		resp, err := cli.Login(ctx, &pb.LoginRequest{Email: *e, Password: *p})
		if err != nil {
			return err
		}
		exp := time.Now().Add(15 * time.Minute)
		if resp.GetExpiresAt() != nil {
			exp = resp.GetExpiresAt().AsTime()
		}
		if err := saveToken(resp.GetAccessToken(), exp); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "ok")
		return nil

	case "key-add":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		svc := fs.String("service", "", "provider")
		file := fs.String("file", "-", "file holding the API key ('-'=stdin)")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *svc == "" {
			return errors.New("need -service")
		}
		key, err := readAll(stdin, *file)
		if err != nil {
			return err
		}
		cli, cc, err := dialAuthed(g)
		if err != nil {
			return err
		}
		defer cc.Close()
		// a trailing newline from a file or pipe is not part of the key
		resp, err := cli.AddCredential(ctx, &pb.AddCredentialRequest{Service: *svc, APIKey: strings.TrimRight(string(key), "\r\n")})
		if err != nil {
			return err
		}
		printJSON(stdout, credentialRow(resp.GetCredential()))
		return nil

	case "keys":
		cli, cc, err := dialAuthed(g)
		if err != nil {
			return err
		}
		defer cc.Close()
		resp, err := cli.ListCredentials(ctx, &pb.ListCredentialsRequest{})
		if err != nil {
			return err
		}
		rows := []map[string]string{}
		for _, c := range resp.GetCredentials() {
			rows = append(rows, credentialRow(c))
		}
		printJSON(stdout, rows)
		return nil

	case "key-rm", "char-show":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		id := fs.String("id", "", "uuid")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *id == "" {
			return errors.New("need -id")
		}
		cli, cc, err := dialAuthed(g)
		if err != nil {
			return err
		}
		defer cc.Close()
		if cmd == "key-rm" {
			if _, err := cli.RemoveCredential(ctx, &pb.RemoveCredentialRequest{ID: *id}); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "ok")
			return nil
		}
		resp, err := cli.GetCharacter(ctx, &pb.GetCharacterRequest{ID: *id})
		if err != nil {
			return err
		}
		mods := []map[string]string{}
		for _, m := range resp.GetModules() {
			mods = append(mods, map[string]string{"id": m.GetID(), "type": m.GetType(), "content": m.GetContent()})
		}
		printJSON(stdout, map[string]any{"character": characterRow(resp.GetCharacter()), "modules": mods})
		return nil

	case "char-create":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		name := fs.String("name", "", "character name")
		desc := fs.String("desc", "", "description")
		var mods moduleFlags
		fs.Var(&mods, "module", "TYPE=TEXT or TYPE=@FILE (repeatable)")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		cli, cc, err := dialAuthed(g)
		if err != nil {
			return err
		}
		defer cc.Close()
		resp, err := cli.CreateCharacter(ctx, &pb.CreateCharacterRequest{Name: *name, Description: *desc, Modules: mods})
		if err != nil {
			return err
		}
		printJSON(stdout, characterRow(resp.GetCharacter()))
		return nil

	case "chars":
		cli, cc, err := dialAuthed(g)
		if err != nil {
			return err
		}
		defer cc.Close()
		resp, err := cli.ListCharacters(ctx, &pb.ListCharactersRequest{})
		if err != nil {
			return err
		}
		rows := []map[string]string{}
		for _, c := range resp.GetCharacters() {
			rows = append(rows, characterRow(c))
		}
		printJSON(stdout, rows)
		return nil
	}
	return errUsage
}

func credentialRow(c *pb.Credential) map[string]string {
	return map[string]string{"id": c.GetID(), "service": c.GetService(), "created_at": tsString(c.GetCreatedAt())}
}

func characterRow(c *pb.Character) map[string]string {
	return map[string]string{
		"id":          c.GetID(),
		"name":        c.GetName(),
		"description": c.GetDescription(),
		"created_at":  tsString(c.GetCreatedAt()),
	}
}

// main runs one subcommand with a 30s deadline.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	cancel()
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	if s, ok := status.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "rpc error: code=%s msg=%s\n", s.Code(), s.Message())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
