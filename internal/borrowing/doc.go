// Package borrowing derives the borrowing screen's display state from raw
// borrow records.
//
// Everything except ViewModel is a pure function of (records, now):
// DeriveStatus, DaysOverdue, Filter, CountTabs and Summarize can be called on
// every render and always agree with the wall clock. ViewModel adds the
// orchestration around a library.BorrowGateway and a state.Store: it fetches
// one data source at a time (keyword search, all, overdue or a raw status),
// refreshes wholesale after each create or return, and drops responses that
// a newer refresh has superseded.
package borrowing
