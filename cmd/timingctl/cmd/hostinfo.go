package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var hostinfoOutput string

var hostinfoCmd = &cobra.Command{
	Use:   "hostinfo",
	Short: "Show host identity, boot time and hardware summary",
	Long: `Reports the facts that matter when comparing timing records across
machines: hostname (the probes' default identity), boot time (the epoch of
CLOCK_MONOTONIC readings), uptime and a hardware summary.`,
	RunE: runHostinfo,
}

func init() {
	rootCmd.AddCommand(hostinfoCmd)

	hostinfoCmd.Flags().StringVarP(&hostinfoOutput, "output", "o", "text", "output format: text, json or yaml")
}

type hostReport struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	OS            string `json:"os" yaml:"os"`
	Platform      string `json:"platform" yaml:"platform"`
	KernelVersion string `json:"kernel_version" yaml:"kernel_version"`
	Architecture  string `json:"architecture" yaml:"architecture"`
	BootTime      string `json:"boot_time" yaml:"boot_time"`
	UptimeSeconds uint64 `json:"uptime_seconds" yaml:"uptime_seconds"`
	CPUModel      string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads    int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMTotalBytes uint64 `json:"ram_total_bytes" yaml:"ram_total_bytes"`
}

func runHostinfo(cmd *cobra.Command, args []string) error {
	info, err := host.Info()
	if err != nil {
		return fmt.Errorf("failed to read host info: %w", err)
	}

	report := hostReport{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform,
		KernelVersion: info.KernelVersion,
		Architecture:  runtime.GOARCH,
		BootTime:      time.Unix(int64(info.BootTime), 0).Format(time.RFC3339),
		UptimeSeconds: info.Uptime,
	}

	if threads, err := cpu.Counts(true); err == nil {
		report.CPUThreads = threads
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		report.CPUModel = cpus[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		report.RAMTotalBytes = vm.Total
	}

	switch hostinfoOutput {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(report)

	default:
		fmt.Println("Host:")
		fmt.Printf("  Hostname: %s\n", report.Hostname)
		fmt.Printf("  OS: %s (%s)\n", report.Platform, report.OS)
		fmt.Printf("  Kernel: %s\n", report.KernelVersion)
		fmt.Printf("  Architecture: %s\n", report.Architecture)
		fmt.Println()
		fmt.Println("Clocks:")
		fmt.Printf("  Boot time: %s\n", report.BootTime)
		fmt.Printf("  Uptime: %s\n", (time.Duration(report.UptimeSeconds) * time.Second).String())
		fmt.Println()
		fmt.Println("Hardware:")
		fmt.Printf("  CPU: %s (%d threads)\n", report.CPUModel, report.CPUThreads)
		fmt.Printf("  RAM: %d bytes\n", report.RAMTotalBytes)
		return nil
	}
}
