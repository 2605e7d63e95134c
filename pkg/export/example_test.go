package export_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

func ExampleRenderJSON() {
	ed := workflow.NewEditor(workflow.WithIDGenerator(func() string { return "node-1" }))
	ed.SetName("Demo")
	ed.AddNode(workflow.KindInput, 10, 20)

	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	data, _ := export.RenderJSON(ed.Snapshot(), export.WithClock(clock))
	fmt.Println(string(data))
	// Output:
	// {
	//   "name": "Demo",
	//   "description": "",
	//   "nodes": [
	//     {
	//       "id": "node-1",
	//       "type": "input",
	//       "title": "Input 1",
	//       "description": "Define input parameters",
	//       "x": 10,
	//       "y": 20,
	//       "color": "#ff6b6b"
	//     }
	//   ],
	//   "connections": [],
	//   "createdAt": "2026-01-02T03:04:05.000Z"
	// }
}

func ExampleFileName() {
	fmt.Println(export.FileName("My Agent Skill", export.SuffixPNG))
	fmt.Println(export.FileName("My Agent Skill", export.FormatJSON.Suffix()))
	// Output:
	// My-Agent-Skill-workflow.png
	// My-Agent-Skill-skill.json
}
