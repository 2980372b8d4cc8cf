package networking

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/utils"
)

const DefaultRtTablesPath = "/etc/iproute2/rt_tables"

// Reserved routing table ids, always known even without an rt_tables file.
const (
	TableUnspec  = 0
	TableDefault = 253
	TableMain    = 254
	TableLocal   = 255
)

// Table is one named routing table.
type Table struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TableMap maps routing table names to ids and back.
type TableMap struct {
	byName map[string]int
	byID   map[int]string
}

// NewTableMap returns a map holding only the reserved tables.
func NewTableMap() *TableMap {
	m := &TableMap{
		byName: make(map[string]int),
		byID:   make(map[int]string),
	}
	m.set("unspec", TableUnspec)
	m.set("default", TableDefault)
	m.set("main", TableMain)
	m.set("local", TableLocal)
	return m
}

// LoadTableMap parses path and every *.conf file in the rt_tables.d directory
// next to it. A missing path leaves only the reserved tables.
func LoadTableMap(path string, logger logrus.FieldLogger) (*TableMap, error) {
	m := NewTableMap()

	files := []string{path}
	extra, err := filepath.Glob(filepath.Join(filepath.Dir(path), "rt_tables.d", "*.conf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(extra)
	files = append(files, extra...)

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			if os.IsNotExist(err) {
				logger.WithField("path", file).Warn("Routing table file not found, only reserved tables are known")
				continue
			}
			return nil, errors.NewConfigError(fmt.Sprintf("failed to open %s", file), err)
		}
		err = m.parse(f, file, logger)
		utils.CloseOrWarn(f)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to read %s", file), err)
		}
	}

	return m, nil
}

// ParseTableMap reads rt_tables formatted text from r on top of the reserved tables.
func ParseTableMap(r io.Reader, logger logrus.FieldLogger) (*TableMap, error) {
	m := NewTableMap()
	if err := m.parse(r, "<reader>", logger); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *TableMap) parse(r io.Reader, source string, logger logrus.FieldLogger) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		id, err := strconv.ParseUint(fields[0], 0, 32)
		if err != nil || len(fields) < 2 {
			logger.WithFields(logrus.Fields{"source": source, "line": lineNo}).Warn("Skipping malformed routing table entry")
			continue
		}
		m.set(fields[1], int(id))
	}
	return scanner.Err()
}

func (m *TableMap) set(name string, id int) {
	m.byName[name] = id
	m.byID[id] = name
}

// NameToID resolves a table name. A name that is not known but parses as an
// unsigned 32-bit decimal number is returned as that id.
func (m *TableMap) NameToID(name string) (int, error) {
	if id, ok := m.byName[name]; ok {
		return id, nil
	}
	if id, err := strconv.ParseUint(name, 10, 32); err == nil {
		return int(id), nil
	}
	return 0, errors.NewResolutionError(fmt.Sprintf("unknown routing table %q", name), nil)
}

// IDToName returns the name registered for a table id.
func (m *TableMap) IDToName(id int) (string, error) {
	if name, ok := m.byID[id]; ok {
		return name, nil
	}
	return "", errors.NewResolutionError(fmt.Sprintf("unknown routing table id %d", id), nil)
}

// NameOrID returns the table name for id, or the decimal id if it has none.
func (m *TableMap) NameOrID(id int) string {
	if name, err := m.IDToName(id); err == nil {
		return name
	}
	return strconv.Itoa(id)
}

// Tables returns all named tables ordered by id.
func (m *TableMap) Tables() []Table {
	result := make([]Table, 0, len(m.byID))
	for id, name := range m.byID {
		result = append(result, Table{ID: id, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
