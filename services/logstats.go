package services

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats summarises one day of log files
type LogStats struct {
	InfoLog              string         `json:"info_log"`
	ErrorLog             string         `json:"error_log"`
	WarningLog           string         `json:"warning_log"`
	TotalErrors          int            `json:"total_errors"`
	TotalWarnings        int            `json:"total_warnings"`
	LoginSuccess         int            `json:"login_success"`
	LoginFailures        int            `json:"login_failures"`
	Registrations        int            `json:"registrations"`
	SQLInjectionAttempts int            `json:"sql_injection_attempts"`
	XSSAttempts          int            `json:"xss_attempts"`
	UserActivities       map[string]int `json:"-"`
	ErrorPatterns        map[string]int `json:"-"`
}

// Count is a key with its number of occurrences
type Count struct {
	Key   string
	Count int
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// AnalyzeLogs reads the info, warning and error logs of day from dir.
// Missing files count as empty.
func AnalyzeLogs(dir string, day time.Time) (*LogStats, error) {
	name := func(level string) string {
		return filepath.Join(dir, level+"-"+day.Format("2006-01-02")+".log")
	}
	stats := &LogStats{
		InfoLog:        name("info"),
		ErrorLog:       name("error"),
		WarningLog:     name("warning"),
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	err := scanLog(stats.ErrorLog, "ERROR: ", func(line string) {
		stats.TotalErrors++
		if strings.Contains(line, "Login attempt failed") {
			stats.LoginFailures++
			stats.countUser(line)
		}
		if strings.Contains(line, "SQL injection attempt") {
			stats.SQLInjectionAttempts++
		}
		if strings.Contains(line, "XSS attempt") {
			stats.XSSAttempts++
		}
		if msg := errorPattern(line); msg != "" {
			stats.ErrorPatterns[msg]++
		}
	})
	if err != nil {
		return nil, err
	}

	if err := scanLog(stats.WarningLog, "WARNING: ", func(string) { stats.TotalWarnings++ }); err != nil {
		return nil, err
	}

	err = scanLog(stats.InfoLog, "INFO: ", func(line string) {
		if strings.Contains(line, "User logged in successfully") {
			stats.LoginSuccess++
			stats.countUser(line)
		}
		if strings.Contains(line, "User registered successfully") {
			stats.Registrations++
			stats.countUser(line)
		}
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TopUsers returns the most active e-mail addresses
func (s *LogStats) TopUsers(limit int) []Count {
	return top(s.UserActivities, limit)
}

// TopErrors returns the most frequent error messages
func (s *LogStats) TopErrors(limit int) []Count {
	return top(s.ErrorPatterns, limit)
}

func (s *LogStats) countUser(line string) {
	if email := emailRegex.FindString(line); email != "" {
		s.UserActivities[email]++
	}
}

// scanLog calls fn for every line starting with prefix. Continuation lines
// such as stack traces are ignored.
func scanLog(path, prefix string, fn func(line string)) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, prefix) {
			fn(line)
		}
	}
	return scanner.Err()
}

// errorPattern strips the prefix, timestamp and source location
func errorPattern(line string) string {
	parts := strings.SplitN(line, ": ", 3)
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}

func top(counts map[string]int, limit int) []Count {
	list := make([]Count, 0, len(counts))
	for k, v := range counts {
		list = append(list, Count{Key: k, Count: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Key < list[j].Key
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
