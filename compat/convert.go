package compat

import (
	"strconv"
	"strings"

	"github.com/wiredump/flowfmt"
	"github.com/wiredump/flowfmt/errors"
)

// textFields names the fields crossing the byte-string to text boundary.
// Every converter spanning the two key representation eras applies it.
var textFields = flowfmt.DefaultTextFields()

func convert011to012(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = []interface{}{0, 12}
	return data, nil
}

func convert012to013(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = []interface{}{0, 13}
	return data, nil
}

func convert013to014(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()

	req, err := sub(data, "request")
	if err != nil {
		return nil, err
	}
	if err := rename(req, "form_in", "first_line_format"); err != nil {
		return nil, errors.Wrap(err, "request")
	}
	if err := renderHTTPVersion(req); err != nil {
		return nil, errors.Wrap(err, "request")
	}

	resp, err := sub(data, "response")
	if err != nil {
		return nil, err
	}
	if err := renderHTTPVersion(resp); err != nil {
		return nil, errors.Wrap(err, "response")
	}
	if err := rename(resp, "code", "status_code"); err != nil {
		return nil, errors.Wrap(err, "response")
	}
	if err := rename(resp, "content", "body"); err != nil {
		return nil, errors.Wrap(err, "response")
	}

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	if _, err := pop(srv, "state"); err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	srv["via"] = nil

	data["version"] = []interface{}{0, 14}
	return data, nil
}

func convert014to015(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = []interface{}{0, 15}
	return data, nil
}

func convert015to016(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()

	for _, name := range []string{"request", "response"} {
		msg, err := sub(data, name)
		if err != nil {
			return nil, err
		}
		renameExisting(msg, "body", "content")
	}
	resp, err := sub(data, "response")
	if err != nil {
		return nil, err
	}
	renameExisting(resp, "msg", "reason")
	req, err := sub(data, "request")
	if err != nil {
		return nil, err
	}
	delete(req, "form_out")

	data["version"] = []interface{}{0, 16}
	return data, nil
}

func convert016to017(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	srv["peer_address"] = nil

	data["version"] = []interface{}{0, 17}
	return data, nil
}

func convert017to018(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = flowfmt.NormalizeText(data, textFields)

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	srv["ip_address"] = popDefault(srv, "peer_address", nil)
	data["marked"] = false

	data["version"] = []interface{}{0, 18}
	return data, nil
}

func convert018to019(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = flowfmt.NormalizeText(data, textFields)

	req, err := sub(data, "request")
	if err != nil {
		return nil, err
	}
	delete(req, "stickyauth")
	delete(req, "stickycookie")

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	cli["sni"] = nil
	cli["alpn_proto_negotiated"] = nil
	cli["cipher_name"] = nil
	cli["tls_version"] = nil

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	srv["alpn_proto_negotiated"] = nil
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		via["alpn_proto_negotiated"] = nil
	}

	data["mode"] = "regular"
	data["metadata"] = map[string]interface{}{}

	data["version"] = []interface{}{0, 19}
	return data, nil
}

func convert019to100(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = flowfmt.NormalizeText(data, textFields)
	data["version"] = []interface{}{1, 0, 0}
	return data, nil
}

func convert100to200(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = []interface{}{2, 0, 0}

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	if err := flattenAddress(cli, "address", true); err != nil {
		return nil, errors.Wrap(err, "client_conn")
	}

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	if err := flattenServerAddresses(srv); err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		if err := flattenServerAddresses(via); err != nil {
			return nil, errors.Wrap(err, "server_conn.via")
		}
	}

	return data, nil
}

func convert200to300(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = []interface{}{3, 0, 0}

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	cli["mitmcert"] = nil

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	srv["tls_version"] = nil
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		via["tls_version"] = nil
	}

	return data, nil
}

func convert300to4(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	// Empty migration to transition to the flat versioning scheme.
	data["version"] = 4
	return data, nil
}

func convert4to5(m *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 5

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	if err := backfillIdentity(m.ids, "client", cli, "address"); err != nil {
		return nil, errors.Wrap(err, "client_conn")
	}

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	if err := backfillIdentity(m.ids, "server", srv, "source_address"); err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		if err := backfillIdentity(m.ids, "server", via, "source_address"); err != nil {
			return nil, errors.Wrap(err, "server_conn.via")
		}
	}

	return data, nil
}

func convert5to6(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 6

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	if err := renameTLSFields(cli); err != nil {
		return nil, errors.Wrap(err, "client_conn")
	}

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	if err := renameTLSFields(srv); err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		if err := renameTLSFields(via); err != nil {
			return nil, errors.Wrap(err, "server_conn.via")
		}
	}

	return data, nil
}

func convert6to7(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 7

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	cli["tls_extensions"] = nil

	return data, nil
}

func convert7to8(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 8

	req, err := sub(data, "request")
	if err != nil {
		return nil, err
	}
	req["trailers"] = nil
	resp, err := optSub(data, "response")
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp["trailers"] = nil
	}

	return data, nil
}

func convert8to9(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 9

	req, err := sub(data, "request")
	if err != nil {
		return nil, err
	}
	if _, err := pop(req, "first_line_format"); err != nil {
		return nil, errors.Wrap(err, "request")
	}
	req["authority"] = []byte{}

	// The replay flag used to be stored redundantly on the request and the
	// response. Collapse it into one tri-state field on the record.
	requestReplay := truthy(popDefault(req, "is_replay", false))
	responseReplay := false
	resp, err := optSub(data, "response")
	if err != nil {
		return nil, err
	}
	if resp != nil {
		responseReplay = truthy(popDefault(resp, "is_replay", false))
	}
	switch {
	case requestReplay:
		data["is_replay"] = "request"
	case responseReplay:
		data["is_replay"] = "response"
	default:
		data["is_replay"] = nil
	}

	return data, nil
}

func convert9to10(_ *Migrator, data flowfmt.Record) (flowfmt.Record, error) {
	data = data.Clone()
	data["version"] = 10

	cli, err := sub(data, "client_conn")
	if err != nil {
		return nil, err
	}
	if err := convertClientConn(cli); err != nil {
		return nil, errors.Wrap(err, "client_conn")
	}

	srv, err := sub(data, "server_conn")
	if err != nil {
		return nil, err
	}
	if err := convertServerConn(srv); err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	via, err := optSub(srv, "via")
	if err != nil {
		return nil, errors.Wrap(err, "server_conn")
	}
	if via != nil {
		if err := convertServerConn(via); err != nil {
			return nil, errors.Wrap(err, "server_conn.via")
		}
	}

	return data, nil
}

// convertConn derives the explicit state, error and tls fields every
// connection carries from format 10 on, and widens the negotiated ALPN and
// cipher values into their list-valued offer fields.
func convertConn(conn flowfmt.Record) error {
	conn["state"] = 0
	conn["error"] = nil
	tls, err := get(conn, "tls_established")
	if err != nil {
		return err
	}
	conn["tls"] = tls
	alpn, err := get(conn, "alpn_proto_negotiated")
	if err != nil {
		return err
	}
	if truthy(alpn) {
		conn["alpn_offers"] = []interface{}{alpn}
	} else {
		conn["alpn_offers"] = nil
	}
	cipher, err := get(conn, "cipher_name")
	if err != nil {
		return err
	}
	if truthy(cipher) {
		conn["cipher_list"] = []interface{}{cipher}
	} else {
		conn["cipher_list"] = nil
	}
	return nil
}

func convertClientConn(conn flowfmt.Record) error {
	conn["sockname"] = []interface{}{"", 0}
	cert := popDefault(conn, "clientcert", nil)
	if truthy(cert) {
		conn["certificate_list"] = []interface{}{cert}
	} else {
		conn["certificate_list"] = []interface{}{}
	}
	return convertConn(conn)
}

// convertServerConn nils cipher_name before the shared conversion reads it:
// only the client connection keeps its negotiated cipher as the offer list.
func convertServerConn(conn flowfmt.Record) error {
	cert := popDefault(conn, "cert", nil)
	if truthy(cert) {
		conn["certificate_list"] = []interface{}{cert}
	} else {
		conn["certificate_list"] = []interface{}{}
	}
	conn["cipher_name"] = nil
	conn["via2"] = nil
	return convertConn(conn)
}

// renameTLSFields moves a connection from the ssl naming to the tls naming.
// Applied identically to the client, server and via connections.
func renameTLSFields(conn flowfmt.Record) error {
	if err := rename(conn, "ssl_established", "tls_established"); err != nil {
		return err
	}
	return rename(conn, "timestamp_ssl_setup", "timestamp_tls_setup")
}

// backfillIdentity assigns a connection its retroactive identifier, keyed
// on its start timestamp and the named address field.
func backfillIdentity(ids *IdentityCache, role string, conn flowfmt.Record, addressField string) error {
	timestamp, err := get(conn, "timestamp_start")
	if err != nil {
		return err
	}
	raw, err := get(conn, addressField)
	if err != nil {
		return err
	}
	address, ok := raw.([]interface{})
	if !ok {
		return errors.Wrapf(errors.ErrField, "%s is not an address tuple", addressField)
	}
	conn["id"] = ids.Identify(role, timestamp, address)
	return nil
}

// flattenServerAddresses unwraps the three address fields a server
// connection carries. The resolved ip_address may be nil and is then left
// alone.
func flattenServerAddresses(conn flowfmt.Record) error {
	if err := flattenAddress(conn, "address", true); err != nil {
		return err
	}
	if err := flattenAddress(conn, "source_address", true); err != nil {
		return err
	}
	return flattenAddress(conn, "ip_address", false)
}

// flattenAddress unwraps the intermediate {"address": ...} representation
// used before format (2, 0, 0) down to the bare address value.
func flattenAddress(conn flowfmt.Record, field string, required bool) error {
	v, ok := conn[field]
	if !ok || v == nil {
		if required {
			return errors.Wrap(errors.ErrField, field)
		}
		return nil
	}
	wrapper, ok := flowfmt.AsRecord(v)
	if !ok {
		return errors.Wrapf(errors.ErrField, "%s is not an address wrapper", field)
	}
	inner, err := get(wrapper, "address")
	if err != nil {
		return errors.Wrap(err, field)
	}
	conn[field] = inner
	return nil
}

// renderHTTPVersion replaces a message's legacy (major, minor) httpversion
// tuple with the HTTP/x.y byte string used from format (0, 14) on.
func renderHTTPVersion(msg flowfmt.Record) error {
	raw, err := pop(msg, "httpversion")
	if err != nil {
		return err
	}
	parts, ok := raw.([]interface{})
	if !ok {
		return errors.Wrapf(errors.ErrField, "malformed httpversion %v", raw)
	}
	rendered := make([]string, len(parts))
	for i, p := range parts {
		n, ok := flowfmt.AsInt(p)
		if !ok {
			return errors.Wrapf(errors.ErrField, "malformed httpversion %v", raw)
		}
		rendered[i] = strconv.Itoa(n)
	}
	msg["http_version"] = []byte("HTTP/" + strings.Join(rendered, "."))
	return nil
}

// get returns a required field value.
func get(r flowfmt.Record, field string) (interface{}, error) {
	v, ok := r[field]
	if !ok {
		return nil, errors.Wrap(errors.ErrField, field)
	}
	return v, nil
}

// pop removes and returns a required field value.
func pop(r flowfmt.Record, field string) (interface{}, error) {
	v, err := get(r, field)
	if err != nil {
		return nil, err
	}
	delete(r, field)
	return v, nil
}

// popDefault removes a field, returning fallback if absent.
func popDefault(r flowfmt.Record, field string, fallback interface{}) interface{} {
	v, ok := r[field]
	if !ok {
		return fallback
	}
	delete(r, field)
	return v
}

// rename moves a required field value under a new name.
func rename(r flowfmt.Record, from, to string) error {
	v, err := pop(r, from)
	if err != nil {
		return err
	}
	r[to] = v
	return nil
}

// renameExisting renames the field only when present.
func renameExisting(r flowfmt.Record, from, to string) {
	if v, ok := r[from]; ok {
		delete(r, from)
		r[to] = v
	}
}

// sub returns a required substructure.
func sub(r flowfmt.Record, field string) (flowfmt.Record, error) {
	v, err := get(r, field)
	if err != nil {
		return nil, err
	}
	m, ok := flowfmt.AsRecord(v)
	if !ok {
		return nil, errors.Wrapf(errors.ErrField, "%s is not a substructure", field)
	}
	return m, nil
}

// optSub returns a substructure that may be absent or nil.
func optSub(r flowfmt.Record, field string) (flowfmt.Record, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := flowfmt.AsRecord(v)
	if !ok {
		return nil, errors.Wrapf(errors.ErrField, "%s is not a substructure", field)
	}
	return m, nil
}

// truthy mirrors the loose truth test the legacy schemas rely on: nil,
// empty text, empty byte strings and empty containers are false.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []byte:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	case flowfmt.Record:
		return len(t) > 0
	}
	return true
}
