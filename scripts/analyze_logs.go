package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Govind-619/Bookstore/services"
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the log files")
	date := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	day, err := time.ParseInLocation("2006-01-02", *date, time.Local)
	if err != nil {
		log.Fatalf("invalid date %q: %v", *date, err)
	}

	stats, err := services.AnalyzeLogs(*logDir, day)
	if err != nil {
		log.Fatalf("failed to analyze logs: %v", err)
	}
	printReport(day, stats)
}

func printReport(day time.Time, stats *services.LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Day:", day.Format("2006-01-02"))
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication Statistics:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Printf("   Registrations: %d\n", stats.Registrations)

	fmt.Println("\n2. Security Incidents:")
	fmt.Printf("   SQL Injection Attempts: %d\n", stats.SQLInjectionAttempts)
	fmt.Printf("   XSS Attempts: %d\n", stats.XSSAttempts)

	fmt.Println("\n3. Error Statistics:")
	fmt.Printf("   Total Errors: %d (%s)\n", stats.TotalErrors, stats.ErrorLog)
	fmt.Printf("   Total Warnings: %d (%s)\n", stats.TotalWarnings, stats.WarningLog)

	fmt.Println("\n4. Most Active Users:")
	for _, u := range stats.TopUsers(5) {
		fmt.Printf("   %s: %d activities\n", u.Key, u.Count)
	}

	fmt.Println("\n5. Most Common Errors:")
	for _, e := range stats.TopErrors(5) {
		fmt.Printf("   %s: %d occurrences\n", e.Key, e.Count)
	}
}
