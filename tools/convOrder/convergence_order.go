package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/gofvm/utils"
)

var (
	csvFile string
)

// Reads the output of "gofvm convergence" and reports the observed order of
// accuracy of each study
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	f, err := os.Open(csvFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	for _, cs := range studies {
		l1, lInf, err := cs.Orders()
		if err != nil {
			fmt.Printf("Title = %s: %v\n", cs.title, err)
			continue
		}
		fmt.Printf("Title = %s, CFL = %5.2f, L1 order = %5.2f, LInf order = %5.2f\n", cs.title, cs.CFL, l1, lInf)
		for i := range cs.numCells {
			fmt.Printf("%d, %v, %v\n", cs.numCells[i], cs.l1[i], cs.lInf[i])
		}
	}
}

type ConvergenceStudy struct {
	title    string
	numCells []int
	CFL      float64
	l1, lInf []float64
}

func NewConvergenceStudy(title string, CFL float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		CFL:   CFL,
	}
}

func (cs *ConvergenceStudy) Add(numCells int, l1, lInf float64) {
	cs.numCells = append(cs.numCells, numCells)
	cs.l1 = append(cs.l1, l1)
	cs.lInf = append(cs.lInf, lInf)
}

func (cs *ConvergenceStudy) Orders() (l1, lInf float64, err error) {
	if l1, err = utils.ConvergenceOrder(cs.numCells, cs.l1); err != nil {
		return
	}
	lInf, err = utils.ConvergenceOrder(cs.numCells, cs.lInf)
	return
}

// readCSV groups rows of title, N, CFL, L1, LInf by title, in title order
func readCSV(r io.Reader) (studies []*ConvergenceStudy, err error) {
	var (
		records [][]string
		byTitle = make(map[string]*ConvergenceStudy)
	)
	if records, err = csv.NewReader(r).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != 5 {
			return nil, fmt.Errorf("line %d: want 5 columns, got %d", i+1, len(rec))
		}
		var (
			n             int
			cfl, l1, lInf float64
		)
		if n, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		for k, v := range []*float64{&cfl, &l1, &lInf} {
			if *v, err = strconv.ParseFloat(rec[k+2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		cs, ok := byTitle[rec[0]]
		if !ok {
			cs = NewConvergenceStudy(rec[0], cfl)
			byTitle[rec[0]] = cs
			studies = append(studies, cs)
		}
		cs.Add(n, l1, lInf)
	}
	sort.Slice(studies, func(i, j int) bool { return studies[i].title < studies[j].title })
	return
}
