package migrate

// mapper.go flattens decoded source records into row descriptors.
//
// Each entity has a declarative field table: target column, source field,
// conversion. Cross-entity references use natural keys (a client's
// addressBookId, a project's uniqueIdentifier) because target-side ids are
// assigned only on insertion. Child rows always follow their parent row in
// the emitted sequence.

import (
	"github.com/parkermills/iBizToMySQL/internal/plist"
	"github.com/parkermills/iBizToMySQL/internal/vcard"
)

// fieldMap projects one source field onto one target column.
type fieldMap struct {
	Column string
	Source string
	Conv   conv
}

var customerFields = []fieldMap{
	{Column: "NameFirst", Source: "firstName", Conv: convText},
	{Column: "NameLast", Source: "lastName", Conv: convText},
	{Column: "addressBookId", Source: "addressBookId", Conv: convText},
}

var projectFields = []fieldMap{
	{Column: "Title", Source: "projectName", Conv: convText},
	{Column: "Description", Source: "projectNotes", Conv: convText},
	{Column: "DateModified", Source: "lastModifiedDate", Conv: convMillis},
	{Column: "DateDue", Source: "projectDueDate", Conv: convMillis},
	{Column: "DateCreated", Source: "projectStartDate", Conv: convMillis},
	{Column: "uniqueIdentifier", Source: "uniqueIdentifier", Conv: convText},
	{Column: "Status", Source: "projectStatus", Conv: convInt},
}

var jobEventFields = []fieldMap{
	{Column: "Name", Source: "jobEventName", Conv: convText},
	{Column: "Description", Source: "jobEventNotes", Conv: convText},
	{Column: "Rate", Source: "jobEventRate", Conv: convFloat},
	{Column: "TaxRate", Source: "tax1", Conv: convFloat},
	{Column: "Quantity", Source: "quantity", Conv: convFloat},
}

var invoiceFields = []fieldMap{
	{Column: "invoiceNumber", Source: "invoiceNumber", Conv: convInt},
	{Column: "Balance", Source: "balance", Conv: convText},
	{Column: "Amount", Source: "invoiceAmount", Conv: convText},
	{Column: "Overdue", Source: "overdue", Conv: convFlag},
	{Column: "isEstimate", Source: "isEstimate", Conv: convFlag},
	{Column: "Date", Source: "date", Conv: convMillis},
	{Column: "DateDue", Source: "dueDate", Conv: convMillis},
	{Column: "uniqueIdentifier", Source: "uniqueIdentifier", Conv: convText},
}

// mapFields applies a field table to a decoded record.
func mapFields(d plist.Dict, fields []fieldMap) []Col {
	cols := make([]Col, len(fields))
	for i, f := range fields {
		cols[i] = Col{Name: f.Column, Value: f.Conv(d, f.Source)}
	}
	return cols
}

// MapClient maps one client record from the clients plist onto a Customer
// insert plus the IsCompany enrichment update. The update addresses the
// just-inserted row via LAST_INSERT_ID, so it must directly follow the
// insert in execution order.
func MapClient(d plist.Dict) []Row {
	insert := Row{
		Entity: EntityCustomer,
		Op:     OpInsert,
		Cols:   mapFields(d, customerFields),
	}

	enrich := Row{Entity: EntityCustomer, Op: OpUpdateLastInsert}
	if company := convText(d, "clientCompany"); company.Valid {
		enrich.Cols = []Col{
			{Name: "IsCompany", Value: Lit("1")},
			{Name: "Company", Value: company},
		}
	} else {
		enrich.Cols = []Col{{Name: "IsCompany", Value: Lit("0")}}
	}

	return []Row{insert, enrich}
}

// MapCard maps a parsed contact card onto Customer enrichment updates
// keyed by addressBookId: one update per present field group (email,
// phone, address), none for absent groups. Cards merge into customers
// created earlier; a card whose key matches no customer updates nothing.
func MapCard(c vcard.Card) []Row {
	var rows []Row

	update := func(cols []Col) {
		rows = append(rows, Row{
			Entity: EntityCustomer,
			Op:     OpUpdateByKey,
			Key:    c.AddressBookID,
			Cols:   cols,
		})
	}

	if c.Email != "" {
		update([]Col{{Name: "Email", Value: TextValue(c.Email)}})
	}

	if c.Phone != "" {
		update([]Col{{Name: "Phone", Value: TextValue(Digits(c.Phone))}})
	}

	if c.Address != nil {
		update([]Col{
			{Name: "Street", Value: TextValue(c.Address.Street)},
			{Name: "City", Value: TextValue(c.Address.City)},
			{Name: "State", Value: TextValue(c.Address.Region)},
			{Name: "Zip", Value: TextValue(c.Address.PostalCode)},
		})
	}

	return rows
}

// MapProject maps a project record onto a Project insert followed by one
// JobEvent row per jobEvents element and one JobEventEstimate row per
// estimateJobEvents element. Children reference the project by its
// uniqueIdentifier and are emitted after the parent; the write layer
// preserves this ordering.
func MapProject(d plist.Dict) []Row {
	uid, _ := d.String("uniqueIdentifier")
	clientID, _ := d.String("clientIdentifier")

	project := Row{
		Entity: EntityProject,
		Op:     OpInsert,
		Cols: append(mapFields(d, projectFields),
			Col{Name: "Customer", Value: RefValue(EntityCustomer, clientID)}),
	}

	rows := []Row{project}
	for _, event := range d.Dicts("jobEvents") {
		rows = append(rows, mapJobEvent(event, EntityJobEvent, uid))
	}
	for _, event := range d.Dicts("estimateJobEvents") {
		rows = append(rows, mapJobEvent(event, EntityJobEventEstimate, uid))
	}
	return rows
}

func mapJobEvent(d plist.Dict, entity Entity, projectUID string) Row {
	cols := []Col{{Name: "ProjectID", Value: RefValue(EntityProject, projectUID)}}
	return Row{
		Entity: entity,
		Op:     OpInsert,
		Cols:   append(cols, mapFields(d, jobEventFields)...),
	}
}

// MapInvoice maps an invoice record onto a single Invoice insert.
// An invoice whose invoiceNumber is absent or not positive yields zero
// rows: dropped, counted by the caller, never an error.
func MapInvoice(d plist.Dict) []Row {
	if n, ok := d.Int("invoiceNumber"); !ok || n <= 0 {
		return nil
	}

	clientID, _ := d.String("clientIdentifier")
	projectIDs := d.Strings("projectIDs")

	projectRef := func(i int) Value {
		if i < len(projectIDs) {
			return RefValue(EntityProject, projectIDs[i])
		}
		return RefValue(EntityProject, "")
	}

	cols := []Col{
		{Name: "Customer", Value: RefValue(EntityCustomer, clientID)},
		{Name: "ProjectNum", Value: projectRef(0)},
		{Name: "ProjectNum2", Value: projectRef(1)},
	}

	return []Row{{
		Entity: EntityInvoice,
		Op:     OpInsert,
		Cols:   append(mapFields(d, invoiceFields), cols...),
	}}
}
