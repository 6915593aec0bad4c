package emulator

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

// Snapshot is the machine state after a step. Step 0 is the initial state.
type Snapshot struct {
	Step        int
	Instruction string        // Disassembly of the word executed in this step.
	Pos         diag.Position // Source position of the executed word.
	*cpu.Machine
}

// Trace is the ordered list of snapshots of a run.
type Trace struct {
	Snapshots []Snapshot
}

// record appends the emulator's current state.
func (trace *Trace) record(emu *Emulator) {
	snap := Snapshot{
		Step:    len(trace.Snapshots),
		Machine: emu.Cpu.Machine.Clone(),
	}

	// The fetch drives the busses; no fetch happened in step 0, nor when
	// the PC ran off the program.
	fetched := snap.Step > 0 && snap.Status != cpu.STATUS_HALTED
	if snap.Status == cpu.STATUS_FAULTED && errors.Is(snap.Fault, cpu.ErrPcOutOfRange) {
		fetched = false
	}
	if fetched {
		addr := int(snap.AddrBus)
		word := cpu.Word(snap.DataBus)
		if ins, err := emu.Cpu.Table.Disassemble(word); err == nil {
			snap.Instruction = ins.String()
		} else {
			snap.Instruction = fmt.Sprintf("%02X", uint8(word))
		}
		snap.Pos, _ = emu.Program.Debug(addr)
	}

	trace.Snapshots = append(trace.Snapshots, snap)
}

// Len is the number of snapshots, including the initial state.
func (trace *Trace) Len() int {
	return len(trace.Snapshots)
}

// Final returns the last snapshot.
func (trace *Trace) Final() (snap Snapshot) {
	if len(trace.Snapshots) == 0 {
		return
	}
	return trace.Snapshots[len(trace.Snapshots)-1]
}

func (trace *Trace) table() table.Writer {
	tw := table.NewWriter()
	tw.SetTitle(f("Simulation (%d steps)", trace.Len()-1))
	tw.AppendHeader(table.Row{
		f("Step"), f("PC"), f("Addr bus"), f("Data bus"),
		f("IR"), f("DR"), f("A"), f("SR"), f("Memory"), f("Instruction"),
	})

	for _, snap := range trace.Snapshots {
		access := ""
		if snap.Access != nil {
			if snap.Access.Write {
				access = fmt.Sprintf("[%X] <- %X", snap.Access.Address, snap.Access.Value)
			} else {
				access = fmt.Sprintf("[%X] -> %X", snap.Access.Address, snap.Access.Value)
			}
		}

		text := snap.Instruction
		switch snap.Status {
		case cpu.STATUS_HALTED:
			text = f("halted")
		case cpu.STATUS_FAULTED:
			text = f("fault: %v", snap.Fault)
		}

		tw.AppendRow(table.Row{
			snap.Step,
			fmt.Sprintf("%X", snap.Pc),
			fmt.Sprintf("%X", snap.AddrBus),
			fmt.Sprintf("%02X", snap.DataBus),
			fmt.Sprintf("%X", snap.Register[cpu.REG_IR]),
			fmt.Sprintf("%X", snap.Register[cpu.REG_DR]),
			fmt.Sprintf("%X", snap.A()),
			snap.Flags.String(),
			access,
			text,
		})
	}

	return tw
}

// String renders the trace as a text table.
func (trace *Trace) String() string {
	return trace.table().Render()
}

// HTML renders the trace as an HTML table.
func (trace *Trace) HTML() string {
	return trace.table().RenderHTML()
}
